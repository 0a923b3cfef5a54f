// Command segctl creates, inspects and edits segment matrix files.
package main

func main() {
	execute()
}
