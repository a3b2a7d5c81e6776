// repl.go — the interactive evaluation loop.
//
// One expression per line, evaluated against the loaded model. Results print
// in the value style, errors as caret snippets. History persists in the
// user's home directory.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	exprlang "github.com/LosEcher/onelang"
)

const (
	historyFile = ".exprl_history"
	prompt      = "==> "
)

var (
	resultStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	noteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

type replCmd struct {
	Model string `help:"YAML model file to evaluate against." short:"m" type:"existingfile"`
}

func (cmd *replCmd) Run(grammar *exprlang.Grammar) (retErr error) {
	model, err := loadModel(cmd.Model)
	if err != nil {
		return err
	}

	fmt.Printf("exprl %s\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.\n", exprlang.Version)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	evaluator := exprlang.NewEvaluator(model)

	for {
		line, err := ln.Prompt(prompt)
		if err != nil { // Ctrl+D or aborted input
			fmt.Println()
			return nil
		}
		code := strings.TrimSpace(line)
		if code == "" {
			continue
		}

		if strings.HasPrefix(code, ":") {
			switch strings.ToLower(code) {
			case ":quit", ":q":
				return nil
			case ":model":
				fmt.Println(noteStyle.Render(model.String()))
			default:
				fmt.Println("unknown command. Type :quit to exit.")
			}
			continue
		}

		node, err := exprlang.Parse(code, grammar)
		if err != nil {
			fmt.Fprintln(os.Stderr, errorStyle.Render(exprlang.WrapErrorWithSource(err, code).Error()))
			continue
		}
		v, err := evaluator.Evaluate(node)
		if err != nil {
			fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
			continue
		}
		fmt.Println(resultStyle.Render(v.String()))
		ln.AppendHistory(code)
	}
}
