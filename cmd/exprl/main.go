// exprl — CLI and REPL for the exprlang expression engine.
//
// Subcommands:
//
//	repl     interactive evaluation loop (default)
//	eval     parse and evaluate one expression
//	tokens   dump the flat token list for an expression
//	grammar  validate a YAML grammar file and echo its normalized form
//
// A custom grammar (--grammar file.yaml) and a YAML host model
// (--model file.yaml) apply to every subcommand that needs them.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	exprlang "github.com/LosEcher/onelang"
)

type cli struct {
	Grammar string `help:"YAML grammar file overriding the default grammar." short:"g" type:"existingfile"`

	Repl    replCmd    `cmd:"" default:"1" help:"Start the interactive REPL."`
	Eval    evalCmd    `cmd:"" help:"Evaluate one expression."`
	Tokens  tokensCmd  `cmd:"" help:"Dump the token list for an expression."`
	GrammarCmd grammarCmd `cmd:"" name:"grammar" help:"Validate a grammar file and print its normalized YAML."`

	Version kong.VersionFlag `help:"Print the version and exit."`
}

type evalCmd struct {
	Expr  string `arg:"" help:"Expression to evaluate."`
	Model string `help:"YAML model file to evaluate against." short:"m" type:"existingfile"`
}

type tokensCmd struct {
	Expr string `arg:"" help:"Expression to tokenize."`
}

type grammarCmd struct {
	File string `arg:"" help:"Grammar file to validate." type:"existingfile"`
}

func main() {
	var c cli
	ctx := kong.Parse(&c,
		kong.Name("exprl"),
		kong.Description("Grammar-configurable expression parser and evaluator."),
		kong.UsageOnError(),
		kong.Vars{"version": exprlang.Version},
	)

	grammar, err := loadGrammar(c.Grammar)
	if err != nil {
		slog.Error("cannot load grammar", slog.Any("error", err))
		os.Exit(1)
	}

	if err := ctx.Run(grammar); err != nil {
		slog.Error("run failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func loadGrammar(path string) (*exprlang.Grammar, error) {
	if path == "" {
		return exprlang.DefaultGrammar(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	config, err := exprlang.LoadGrammarConfig(data)
	if err != nil {
		return nil, err
	}
	return config.Compile()
}

func loadModel(path string) (exprlang.Value, error) {
	if path == "" {
		return exprlang.MapVal(exprlang.NewMapObject()), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return exprlang.Null, err
	}
	return exprlang.DecodeModel(data)
}

func (cmd *evalCmd) Run(grammar *exprlang.Grammar) error {
	model, err := loadModel(cmd.Model)
	if err != nil {
		return err
	}
	v, err := exprlang.EvaluateSource(cmd.Expr, grammar, model)
	if err != nil {
		return exprlang.WrapErrorWithSource(err, cmd.Expr)
	}
	fmt.Println(v)
	return nil
}

func (cmd *tokensCmd) Run(grammar *exprlang.Grammar) error {
	tokens, err := exprlang.Tokenize(cmd.Expr, grammar.LexerOperators())
	if err != nil {
		return exprlang.WrapErrorWithSource(err, cmd.Expr)
	}
	for _, tok := range tokens {
		fmt.Printf("%-12s %q\n", tok.Kind, tok.Text)
	}
	return nil
}

func (cmd *grammarCmd) Run(_ *exprlang.Grammar) error {
	data, err := os.ReadFile(cmd.File)
	if err != nil {
		return err
	}
	config, err := exprlang.LoadGrammarConfig(data)
	if err != nil {
		return err
	}
	if _, err := config.Compile(); err != nil {
		return err
	}
	out, err := exprlang.DumpGrammarConfig(config)
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	return nil
}
