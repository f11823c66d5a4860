/*
Author: Jeff Berkowitz
Copyright (C) 2023 Jeff Berkowitz

This file is part of y4lang.

y4lang is free software; you can redistribute it and/or
modify it under the terms of the GNU General Public License
as published by the Free Software Foundation, either version 3
of the License, or (at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see http://www.gnu.org/licenses/.
*/

// y4c is the ambient driver wiring internal/parser -> internal/asmfmt
// -> interp together, the way itf/itf.go wires asm -> dis -> asm into
// a round trip. Three subcommands: compile, run, compile-and-run.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/pdxjjb/y4lang/internal/asmfmt"
	"github.com/pdxjjb/y4lang/internal/diag"
	"github.com/pdxjjb/y4lang/internal/parser"
	"github.com/pdxjjb/y4lang/internal/token"
	"github.com/pdxjjb/y4lang/interp"
)

var (
	dflag = flag.Bool("d", false, "enable debug tracing")
	oflag = flag.String("o", "", "output path (compile, compile-and-run)")
)

func main() {
	flag.Parse()
	if *dflag {
		logrus.SetLevel(logrus.DebugLevel)
	}

	args := flag.Args()
	if len(args) < 2 {
		usage()
	}
	cmd, path := args[0], args[1]

	switch cmd {
	case "compile":
		runCompile(path)
	case "run":
		runRun(path)
	case "compile-and-run":
		runCompileAndRun(path)
	default:
		usage()
	}
}

func usage() {
	pr("usage: y4c [-d] [-o path] compile|run|compile-and-run <source-or-code-path>")
	os.Exit(1)
}

func runCompile(sourcePath string) {
	code, err := compile(sourcePath)
	if err != nil {
		fatal(err.Error())
	}
	outPath := *oflag
	if outPath == "" {
		outPath = sourcePath + ".y4c"
	}
	if err := asmfmt.WriteText(outPath, code); err != nil {
		fatal(err.Error())
	}
	pr(fmt.Sprintf("wrote %d instructions to %s", len(code), outPath))
}

func runRun(codePath string) {
	code, err := asmfmt.ReadText(codePath)
	if err != nil {
		fatal(err.Error())
	}
	if err := execute(code); err != nil {
		fatal(err.Error())
	}
}

func runCompileAndRun(sourcePath string) {
	code, err := compile(sourcePath)
	if err != nil {
		fatal(err.Error())
	}
	if *oflag != "" {
		if err := asmfmt.WriteText(*oflag, code); err != nil {
			fatal(err.Error())
		}
	}
	if err := execute(code); err != nil {
		fatal(err.Error())
	}
}

// compile runs the scanner and parser over sourcePath and returns the
// assembled code buffer, or the aggregated diagnostics as an error.
func compile(sourcePath string) ([]int64, error) {
	names := token.NewNameTable()
	scan, err := token.NewFileScanner(sourcePath, names)
	if err != nil {
		return nil, err
	}

	sink := diag.NewLogrusSink(logrus.StandardLogger())
	ann := diag.New(scan, sink)

	asm, _ := parser.Parse(scan, names, ann)
	if !ann.ErrorFree() {
		return nil, ann.Errors()
	}
	return asm.Code(), nil
}

// execute Checks and Runs code against the process's own stdin/stdout,
// returning any run-time error interp reports.
func execute(code []int64) error {
	ip := interp.New(code, os.Stdin, os.Stdout)
	if err := ip.Check(); err != nil {
		return err
	}
	if err := ip.Run(); err != nil {
		return err
	}
	if re := ip.Reported(); re != nil {
		os.Exit(1)
	}
	return nil
}

func fatal(s string) {
	pr(s)
	os.Exit(2)
}

func pr(s string) {
	fmt.Fprintln(os.Stderr, "y4c: "+s)
}
