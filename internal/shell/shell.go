package shell

import (
	"fmt"
	"strings"

	"github.com/abiosoft/ishell/v2"
	"github.com/abiosoft/readline"

	"routineshell/internal/logger"
	"routineshell/internal/version"
)

// Options configures the REPL.
type Options struct {
	Prompt      string
	HistoryFile string
}

// New builds an ishell REPL around session. Unknown input is sent to the
// assistant as a chat message.
func New(session *Session, opts Options) (*ishell.Shell, error) {
	prompt := opts.Prompt
	if prompt == "" {
		prompt = "routine> "
	}

	sh := ishell.NewWithConfig(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     opts.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if sh == nil {
		return nil, fmt.Errorf("failed to create shell")
	}

	// The built-in clear would shadow the selection command.
	sh.DeleteCmd("clear")

	for _, cmd := range Commands(session) {
		sh.AddCmd(cmd)
	}
	sh.NotFound(func(c *ishell.Context) {
		session.Chat(c.RawArgs)
	})

	sh.Println(version.GetFormattedVersion())
	sh.Println("Type 'help' for commands. Anything else is sent to the assistant.")

	logger.Debug("Shell initialized", "history", opts.HistoryFile)
	return sh, nil
}

// Commands returns the REPL commands bound to session.
func Commands(session *Session) []*ishell.Cmd {
	bind := func(fn func([]string)) func(*ishell.Context) {
		return func(c *ishell.Context) { fn(c.Args) }
	}

	return []*ishell.Cmd{
		{
			Name: "categories",
			Help: "list product categories",
			Func: bind(session.Categories),
		},
		{
			Name:      "category",
			Aliases:   []string{"cat"},
			Help:      "browse a category",
			LongHelp:  "category <name> shows the products in <name>.",
			Func:      bind(session.Category),
			Completer: prefixCompleter(session.CategoryNames),
		},
		{
			Name:    "products",
			Aliases: []string{"ls"},
			Help:    "show the products in the current category",
			Func:    bind(session.Products),
		},
		{
			Name:      "toggle",
			Aliases:   []string{"click", "select"},
			Help:      "select or deselect products",
			LongHelp:  "toggle <id> [id...] flips each product in or out of the selection.",
			Func:      bind(session.Toggle),
			Completer: prefixCompleter(session.ProductIDs),
		},
		{
			Name:      "details",
			Aliases:   []string{"info"},
			Help:      "expand or collapse a product's details",
			Func:      bind(session.Details),
			Completer: prefixCompleter(session.ProductIDs),
		},
		{
			Name:      "remove",
			Aliases:   []string{"rm"},
			Help:      "remove products from the selection",
			Func:      bind(session.Remove),
			Completer: prefixCompleter(session.SelectedIDs),
		},
		{
			Name: "clear",
			Help: "clear the selection",
			Func: bind(session.Clear),
		},
		{
			Name:    "selected",
			Aliases: []string{"chips"},
			Help:    "show the selected products",
			Func:    bind(session.Selected),
		},
		{
			Name:    "chat",
			Aliases: []string{"ask"},
			Help:    "send a message to the assistant",
			Func:    bind(session.Chat),
		},
		{
			Name:    "generate",
			Aliases: []string{"routine"},
			Help:    "generate a routine from the selected products",
			Func:    bind(session.Generate),
		},
	}
}

func prefixCompleter(candidates func() []string) func([]string) []string {
	return func(args []string) []string {
		prefix := ""
		if len(args) > 0 {
			prefix = args[len(args)-1]
		}
		var out []string
		for _, c := range candidates() {
			if strings.HasPrefix(c, prefix) {
				out = append(out, c)
			}
		}
		return out
	}
}
