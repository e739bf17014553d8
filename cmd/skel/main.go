// Command skel validates, runs and previews YAML skeleton rigs.
package main

func main() {
	Execute()
}
