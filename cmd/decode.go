package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"firestige.xyz/udex/internal/core"
	"firestige.xyz/udex/internal/core/decoder"
	"firestige.xyz/udex/internal/metrics"
)

var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Decode a raw package against a data description",
	Long: `Register a data description, decode one raw package body and print its
sub-payloads with their fingerprints. The package identity defaults to the
selected data source.

Examples:
  udex decode -f vehicle.sdl -p cycle207.bin --cycle 207
  udex decode -f radar.fibex --format fibex -p frame.bin --package-format mts.eth --package-source-id 1551 --package-instance 1`,
	Run: func(cmd *cobra.Command, args []string) {
		r, err := newRegistrar()
		if err != nil {
			exitWithError("failed to create hash manager", err)
		}
		defer r.Terminate()
		decodeOpts.metrics = cfg != nil && cfg.Metrics.Enabled
		if err := runDecode(r, os.Stdout, decodeOpts); err != nil {
			exitWithError(fmt.Sprintf("failed to decode %s", decodeOpts.packageFile), err)
		}
	},
}

type decodeOptions struct {
	descriptionOptions
	packageFile     string
	packageFormat   string
	cycle           uint32
	packageSourceID uint16
	packageInstance int64
	metrics         bool
}

var decodeOpts decodeOptions

func init() {
	decodeOpts.bind(decodeCmd)
	f := decodeCmd.Flags()
	f.StringVarP(&decodeOpts.packageFile, "package", "p", "", "raw package body file (required)")
	f.StringVar(&decodeOpts.packageFormat, "package-format", "mts.mta.sw", "package format tag")
	f.Uint32Var(&decodeOpts.cycle, "cycle", 0, "cycle id of the package header")
	f.Uint16Var(&decodeOpts.packageSourceID, "package-source-id", 0, "source id of the package header (selected source when 0)")
	f.Int64Var(&decodeOpts.packageInstance, "package-instance", -1, "instance of the package header (selected source when negative)")
	decodeCmd.MarkFlagRequired("package")
}

func runDecode(r Registrar, w io.Writer, opts decodeOptions) error {
	if err := registerDescription(r, opts.descriptionOptions); err != nil {
		return err
	}

	data, err := os.ReadFile(opts.packageFile)
	if err != nil {
		return fmt.Errorf("read package: %w", err)
	}

	src := r.DataSource()
	raw := &core.RawPackage{
		SourceID:       src.SourceID,
		InstanceNumber: src.Instance,
		CycleID:        opts.cycle,
		CycleState:     core.CycleStateBody,
		Size:           uint64(len(data)),
		FormatType:     opts.packageFormat,
		Data:           data,
	}
	if opts.packageSourceID != 0 {
		raw.SourceID = opts.packageSourceID
	}
	if opts.packageInstance >= 0 {
		raw.InstanceNumber = uint32(opts.packageInstance)
	}

	pkg := decoder.NewPackage(raw, r.DecodeTables())
	if !pkg.Valid() {
		return errors.New("package carries no decodable payload")
	}

	names := make(map[uint64]string)
	for url, info := range r.GetNewRegisteredTopics() {
		names[info.Hash] = url
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tMETA\tHASH\tOFFSET\tSIZE\tTOPIC")
	for i := 0; pkg.PayloadAvailable(); i++ {
		meta := pkg.GetMetaType()
		h := pkg.Hash()
		topic := names[h]
		if meta == core.MetaTypeName {
			topic = pkg.GetPackageName()
		}
		if topic == "" {
			topic = "-"
		}
		p := pkg.GetPayload()
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%s\n", i, meta, h, p.Offset, p.Size, topic)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if !opts.metrics {
		return nil
	}
	samples, err := metrics.Snapshot()
	if err != nil {
		return err
	}
	fmt.Fprintln(w)
	for _, s := range samples {
		fmt.Fprintf(w, "%s %g\n", s.Name, s.Value)
	}
	return nil
}
