// Command jsrt is the CLI entry point for the embeddable JavaScript
// runtime core: `jsrt run <script>` loads and executes a script through
// the module subsystem; `jsrt version` prints the build version.
package main

import "github.com/speedboat/jsrt/cmd"

func main() {
	cmd.Execute()
}
