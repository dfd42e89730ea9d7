package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/aidanlsb/gmedit/internal/ui"
)

// promptForConfirm asks a yes/no question on the terminal. Without a terminal
// on both ends, or in JSON mode, the answer is no and callers must ask for
// --yes instead.
func promptForConfirm(message string) bool {
	if isJSONOutput() || !isatty.IsTerminal(os.Stdout.Fd()) || !isatty.IsTerminal(os.Stdin.Fd()) {
		return false
	}
	fmt.Printf("%s %s ", message, ui.Hint("[y/N]"))
	return readYes(os.Stdin)
}

func readYes(r io.Reader) bool {
	line, _ := bufio.NewReader(r).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
