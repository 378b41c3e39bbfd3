package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the type schema of a registered topic",
	Long: `Register a data description and print the JSON type schema of one topic.
The URL may omit the data source name.

Examples:
  udex schema -f vehicle.sdl --url "SIM VFB.AlgoVehCycle.VehDyn"
  udex schema -f vehicle.sdl --url AlgoVehCycle.VehDyn --pretty`,
	Run: func(cmd *cobra.Command, args []string) {
		r, err := newRegistrar()
		if err != nil {
			exitWithError("failed to create hash manager", err)
		}
		defer r.Terminate()
		if err := runSchema(r, os.Stdout, schemaOpts); err != nil {
			exitWithError(fmt.Sprintf("failed to read schema of %s", schemaOpts.url), err)
		}
	},
}

type schemaOptions struct {
	descriptionOptions
	url    string
	pretty bool
}

var schemaOpts schemaOptions

func init() {
	schemaOpts.bind(schemaCmd)
	schemaCmd.Flags().StringVar(&schemaOpts.url, "url", "", "topic URL (required)")
	schemaCmd.Flags().BoolVar(&schemaOpts.pretty, "pretty", false, "indent the schema")
	schemaCmd.MarkFlagRequired("url")
}

func runSchema(r Registrar, w io.Writer, opts schemaOptions) error {
	if err := registerDescription(r, opts.descriptionOptions); err != nil {
		return err
	}

	topics := r.GetNewRegisteredTopics()
	url := opts.url
	info, ok := topics[url]
	if !ok {
		url = r.DataSource().Name + "." + opts.url
		if info, ok = topics[url]; !ok {
			return fmt.Errorf("topic %q is not registered", opts.url)
		}
	}

	schema, ok := r.GetSchema(url, info.SourceID)
	if !ok {
		return fmt.Errorf("no schema for %q", url)
	}
	if !opts.pretty {
		fmt.Fprintln(w, schema)
		return nil
	}

	var out bytes.Buffer
	if err := json.Indent(&out, []byte(schema), "", "  "); err != nil {
		return fmt.Errorf("indent schema: %w", err)
	}
	out.WriteByte('\n')
	_, err := out.WriteTo(w)
	return err
}
