package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alanmcruickshank/sqlfluff/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the available lint rules",
	RunE:  runRules,
}

func runRules(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigFor(cmd, nil)
	if err != nil {
		return err
	}
	reg, err := rules.Default(cfg)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, rule := range reg.Rules() {
		enabled := "enabled"
		if !cfg.GetBool(true, "rules", rule.Code(), "enabled") {
			enabled = "disabled"
		}
		keywords := ""
		for i, kw := range rule.ConfigKeywords() {
			if i > 0 {
				keywords += ", "
			}
			keywords += kw.Name
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", rule.Code(), rule.Name(), enabled, keywords)
	}
	return w.Flush()
}
