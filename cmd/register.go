package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"firestige.xyz/udex/internal/hashmanager"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a data description and print its topics",
	Long: `Register a data description with the hash manager and print every topic it
produced: URL, fingerprint and the identity the fingerprint was computed from.

Supported formats: sdl, cdl, gps-sdl, reference-camera-sdl, sw_container,
hw_data, swc, dbc, fibex, arxml. Descriptions may be zstd or lz4 compressed.

Examples:
  udex register -f vehicle.sdl --format sdl
  udex register -f powertrain.dbc --format dbc --json
  udex register -f sensors.sdl --format sdl --source-name ADC5xx --source-id 6403 --instance 0`,
	Run: func(cmd *cobra.Command, args []string) {
		r, err := newRegistrar()
		if err != nil {
			exitWithError("failed to create hash manager", err)
		}
		defer r.Terminate()
		if err := runRegister(r, os.Stdout, registerOpts); err != nil {
			exitWithError(fmt.Sprintf("failed to register %s", registerOpts.file), err)
		}
	},
}

// descriptionOptions selects a description file and the data source it is
// registered for.
type descriptionOptions struct {
	file             string
	format           string
	sourceName       string
	sourceID         uint16
	instance         uint32
	formatIdentifier string
}

func (o *descriptionOptions) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&o.file, "file", "f", "", "data description file (required)")
	f.StringVar(&o.format, "format", "sdl", "data description format")
	f.StringVar(&o.sourceName, "source-name", "", "data source name (configured source when empty)")
	f.Uint16Var(&o.sourceID, "source-id", 0, "data source id")
	f.Uint32Var(&o.instance, "instance", 0, "data source instance number")
	f.StringVar(&o.formatIdentifier, "format-identifier", "", "package format tag of the data source")
	cmd.MarkFlagRequired("file")
}

// registerDescription selects the data source and registers the file.
func registerDescription(r Registrar, opts descriptionOptions) error {
	if opts.sourceName != "" {
		r.SetDataSourceInfo(opts.sourceName, opts.sourceID, opts.instance, opts.formatIdentifier)
	}
	return r.RegisterDataSources(opts.file, opts.format)
}

type registerOptions struct {
	descriptionOptions
	json bool
}

var registerOpts registerOptions

func init() {
	registerOpts.bind(registerCmd)
	registerCmd.Flags().BoolVar(&registerOpts.json, "json", false, "print topics as JSON")
}

type topicRow struct {
	URL              string `json:"url"`
	Hash             uint64 `json:"hash"`
	DataSource       string `json:"dataSource"`
	FormatIdentifier string `json:"formatIdentifier"`
	SourceID         uint16 `json:"sourceId"`
	Instance         uint32 `json:"instance"`
	CycleID          uint32 `json:"cycleId"`
	VirtualAddress   uint64 `json:"virtualAddress"`
}

func topicRows(topics map[string]hashmanager.TopicInfo) []topicRow {
	rows := make([]topicRow, 0, len(topics))
	for url, info := range topics {
		rows = append(rows, topicRow{
			URL:              url,
			Hash:             info.Hash,
			DataSource:       info.DataSourceName,
			FormatIdentifier: info.FormatIdentifier,
			SourceID:         info.SourceID,
			Instance:         info.InstanceNumber,
			CycleID:          info.CycleID,
			VirtualAddress:   info.VirtualAddress,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].URL < rows[j].URL })
	return rows
}

func runRegister(r Registrar, w io.Writer, opts registerOptions) error {
	if err := registerDescription(r, opts.descriptionOptions); err != nil {
		return err
	}

	rows := topicRows(r.GetNewRegisteredTopics())
	if opts.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "URL\tHASH\tSOURCE\tINSTANCE\tCYCLE\tVADDR")
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t0x%X\n",
			row.URL, row.Hash, row.SourceID, row.Instance, row.CycleID, row.VirtualAddress)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "%d topic(s) registered\n", len(rows))
	return nil
}
