// Command fengine-run is a worked embedder: it builds a small Fengine
// program in-process (no front-end, see spec.md §1), wires the dynval
// value domain and the nativestd native functions, and runs it.
//
// Grounded on funxy's pkg/embed.VM, which plays the same role (a small
// embedder-facing wrapper around New/Bind/Call) for funxy itself.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mattn/go-isatty"

	fengine "github.com/FenderLang/Fengine"
	"github.com/FenderLang/Fengine/examples/dynval"
	"github.com/FenderLang/Fengine/examples/nativestd"
)

var colorize = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

func printResult(v fengine.Value) {
	if colorize {
		fmt.Printf("\x1b[32m%s\x1b[0m\n", v.(*dynval.Value).Inspect())
		return
	}
	fmt.Println(v.(*dynval.Value).Inspect())
}

func main() {
	log.SetFlags(0)

	configPath := flag.String("config", "", "path to a YAML EngineConfig (stackSize, numGlobals, entryPoint)")
	dbPath := flag.String("db", "fengine.db", "path to the sqlite kv store backing dbGet/dbSet")
	flag.Parse()

	cfg := &nativestd.EngineConfig{StackSize: 16, NumGlobals: 1, EntryPoint: 0}
	if *configPath != "" {
		loaded, err := nativestd.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("fengine-run: %v", err)
		}
		cfg = loaded
	}

	db, err := nativestd.OpenDB(*dbPath)
	if err != nil {
		log.Fatalf("fengine-run: %v", err)
	}
	defer db.Close()

	engine := fengine.NewEngine(dynval.TypeSystem{}, cfg.NumGlobals, cfg.EntryPoint, cfg.StackSize, db)

	// fn main() { dbSet("greeting", "hello"); dbGet("greeting") }
	engine.RegisterFunction(
		[]fengine.Expression{
			fengine.NativeFunctionCall{
				Func: nativestd.DBSet,
				Args: []fengine.Expression{
					fengine.RawValue{Value: dynval.NewString("greeting")},
					fengine.RawValue{Value: dynval.NewString("hello")},
				},
			},
			fengine.NativeFunctionCall{
				Func: nativestd.DBGet,
				Args: []fengine.Expression{
					fengine.RawValue{Value: dynval.NewString("greeting")},
				},
			},
		},
		fengine.Fixed(0),
		0,
		0,
		fengine.StaticFunctionType{},
	)

	result, err := engine.Run()
	if err != nil {
		log.Fatalf("fengine-run: %v", err)
	}
	printResult(result)
}
