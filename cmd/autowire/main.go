// Command autowire inspects and verifies serialized precomputed
// tables without building a container.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/autowire/autowire"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "autowire",
	Short:         "Inspect and verify precomputed registration tables",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	policyFlag string
	strictFlag bool
)

var verifyCmd = &cobra.Command{
	Use:   "verify <table.yaml>",
	Short: "Run lifetime verification over a serialized table",
	Args:  cobra.ExactArgs(1),
	RunE:  runVerify,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <table.yaml>",
	Short: "Dump the registrations a table produces",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	// Policy defaults may come from a .env next to the table.
	_ = godotenv.Load()

	verifyCmd.Flags().StringVar(&policyFlag, "policy", "throw",
		"policy for lifetime mismatches (silent|warn|throw)")
	verifyCmd.Flags().BoolVar(&strictFlag, "strict-decoration", false,
		"fail on decorators whose target is unregistered")

	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(inspectCmd)
}

func loadTable(path string) (*autowire.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return autowire.ReadTable(f)
}

func tableBuilder(table *autowire.Table) *autowire.Builder {
	b := autowire.New().UseUnfiltered(table).FromEnv()
	if strictFlag {
		b.StrictDecoration()
	}

	return b
}

func runVerify(cmd *cobra.Command, args []string) error {
	table, err := loadTable(args[0])
	if err != nil {
		return err
	}

	policy, err := autowire.ParsePolicy(policyFlag)
	if err != nil {
		return err
	}

	report, err := tableBuilder(table).
		WithVerification(map[autowire.IssueKind]autowire.Policy{
			autowire.KindLifetimeMismatch: policy,
		}).
		WithReporter(func(autowire.Issue) {}).
		Verify()
	if err != nil && report == nil {
		return err
	}

	printReport(report)

	if err != nil {
		return fmt.Errorf("verification failed")
	}

	return nil
}

func printReport(report *autowire.Report) {
	header := color.New(color.Bold)
	if len(report.Issues) == 0 {
		header.Println("verification report: 0 issue(s)")
		color.Green("no lifetime-safety violations found")
		return
	}

	header.Printf("verification report: %d issue(s)\n", len(report.Issues))
	for _, issue := range report.Issues {
		color.Red("%s", issue)
		fmt.Printf("\t%s (%s) must not outlive %s (%s)\n",
			issue.Consumer, issue.ConsumerLifetime,
			issue.Dependency, issue.DependencyLifetime)
	}
}

func runInspect(cmd *cobra.Command, args []string) error {
	table, err := loadTable(args[0])
	if err != nil {
		return err
	}

	bold := color.New(color.Bold)
	for _, module := range table.Modules {
		bold.Println(module.Name)

		for _, t := range module.Types {
			fmt.Printf("  %s [%s]\n", t.Name, t.Lifetime)
			for _, iface := range t.Interfaces {
				fmt.Printf("    as %s\n", iface.Name)
			}
			for _, p := range t.Params {
				fmt.Printf("    needs %s\n", p.Name)
			}
			if t.Decorator != nil {
				fmt.Printf("    decorates %s (order %d)\n", t.Decorator.Target.Name, t.Decorator.Order)
			}
		}

		for _, p := range module.Plugins {
			fmt.Printf("  plugin %s %v\n", p.Name, p.Capabilities)
		}
	}

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("error: %v", err)
		os.Exit(1)
	}
}
