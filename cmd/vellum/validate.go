package main

import (
	"encoding/json"
	"os"

	"github.com/fatih/color"

	"github.com/vellumlab/vellum/internal/config"
	"github.com/vellumlab/vellum/internal/model/linear"
	"github.com/vellumlab/vellum/internal/schema"
	"github.com/vellumlab/vellum/internal/validate"
)

// runValidate checks a document file against the interchange format and
// the structural rules, printing a per-step report. Returns the process
// exit code.
func runValidate(cfg config.Config, docPath string) int {
	if docPath == "" {
		fail("-validate requires -doc")
		return 2
	}

	raw, err := os.ReadFile(docPath)
	if err != nil {
		fail("%v", err)
		return 1
	}

	ok := true
	if err := validate.Interchange(raw); err != nil {
		step("interchange", err)
		ok = false
	} else {
		step("interchange", nil)
	}

	var data linear.Data
	if err := json.Unmarshal(raw, &data); err != nil {
		step("decode", err)
		return 1
	}
	step("decode", nil)

	reg := schema.NewWithDefaults()
	if cfg.Schema.Path != "" {
		if err := schema.LoadFile(reg, cfg.Schema.Path); err != nil {
			color.New(color.FgYellow).Fprintf(color.Error,
				"  schema file %s skipped: %v\n", cfg.Schema.Path, err)
		}
	}
	if err := validate.Structure(data, validate.WithRegistry(reg)); err != nil {
		step("structure", err)
		ok = false
	} else {
		step("structure", nil)
	}

	if !ok {
		return 1
	}
	color.New(color.FgGreen).Fprintf(color.Error, "%s: valid\n", docPath)
	return 0
}

// step prints one line of the validation report.
func step(name string, err error) {
	if err != nil {
		color.New(color.FgRed).Fprintf(color.Error, "  %-11s %v\n", name+":", err)
		return
	}
	color.New(color.FgGreen).Fprintf(color.Error, "  %-11s ok\n", name+":")
}
