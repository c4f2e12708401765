package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ppiankov/curator/internal/score"
)

// registryCmd represents the registry command
var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Inspect the media ownership registry",
	Long: `The ownership registry maps publisher domains to parent companies,
ownership clusters and independence flags. A built-in registry ships with
the binary; --registry or registry_file in the config replaces it.`,
}

var registryShowCmd = &cobra.Command{
	Use:   "show [file]",
	Short: "List owners, clusters and domains",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := openRegistry(args)
		if err != nil {
			return err
		}
		return printRegistry(os.Stdout, reg)
	},
}

var registryValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a registry file for malformed entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := score.LoadRegistryFile(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("✓ %s: %d owners, %d domains\n", args[0], len(reg.Owners()), reg.Len())
		return nil
	},
}

func openRegistry(args []string) (*score.Registry, error) {
	if len(args) == 1 {
		return score.LoadRegistryFile(args[0])
	}
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.RegistryFile != "" {
		return score.LoadRegistryFile(cfg.RegistryFile)
	}
	return score.DefaultRegistry(), nil
}

func printRegistry(w io.Writer, reg *score.Registry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "OWNER\tCLUSTER\tINDEPENDENCE\tDOMAINS")
	owners := reg.Owners()
	for _, o := range owners {
		independence := o.Independence
		if independence == "" {
			independence = score.IndependenceOf(o.Name)
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", o.Name, o.ClusterID, independence, strings.Join(o.Domains, ", "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%d owners, %d domains\n", len(owners), reg.Len())
	return nil
}

func init() {
	rootCmd.AddCommand(registryCmd)
	registryCmd.AddCommand(registryShowCmd)
	registryCmd.AddCommand(registryValidateCmd)
}
