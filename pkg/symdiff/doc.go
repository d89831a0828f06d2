// Package symdiff differentiates symbolic expressions.
//
// Expressions are binary trees (package tree) of numbers, variables and
// operations. The diff package builds derivative trees, the simplify package
// folds literals and drops neutral elements, sexpr reads and writes the text
// form, and render produces LaTeX and Graphviz output.
//
// Engine ties the stages together with logging, metrics, tracing, a
// memoising cache and optional persistence:
//
//	src, err := sexpr.Parse(`("*" ("x" nil nil) ("x" nil nil))`)
//	if err != nil {
//	    return err
//	}
//
//	engine := symdiff.New(symdiff.WithLogger(logger))
//	d, err := engine.Derive(ctx, src, "x")
//	if err != nil {
//	    return err
//	}
//	text, _ := sexpr.FormatTree(d) // ("+" ("x" nil nil) ("x" nil nil))
//
// Trees are not safe for concurrent use, but an Engine is: each call works on
// its own trees and the cache hands out clones.
package symdiff
