package skel

import "errors"

var (
	// ErrInvalidArgument is returned when an argument is not usable, such as
	// a root definition the scene does not recognize or a non-positive interval.
	ErrInvalidArgument = errors.New("skel: invalid argument")

	// ErrNoRoot is returned when the skeleton is instanced before SetRoot.
	ErrNoRoot = errors.New("skel: skeleton has no root bone")

	// ErrAlreadyInstanced is returned by a second instancing pass. The rest
	// transforms are applied exactly once.
	ErrAlreadyInstanced = errors.New("skel: skeleton already instanced")

	// ErrNotInstanced is returned by Tick before the instancing pass has run.
	ErrNotInstanced = errors.New("skel: skeleton not instanced")
)
