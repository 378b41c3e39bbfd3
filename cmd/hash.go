package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"firestige.xyz/udex/internal/core"
	"firestige.xyz/udex/internal/core/hash"
)

var hashCmd = &cobra.Command{
	Use:   "hash",
	Short: "Print the fingerprint of a package identity or a manual port",
	Long: `Print the 64-bit fingerprint the decoders and the hash manager assign to a
package identity. Numeric flags accept decimal or 0x-prefixed hexadecimal.

Examples:
  udex hash --source 87 --instance 37 --cycle 207 --vaddr 0x20350000
  udex hash --source 87 --instance 37 --cycle 207 --vaddr 0x20350000 --name AlgoVehCycle.VehDyn
  udex hash --port "SIM VFB.view.group1" --size 1`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runHash(os.Stdout, hashOpts); err != nil {
			exitWithError("failed to compute hash", err)
		}
	},
}

type hashOptions struct {
	source   string
	instance string
	cycle    string
	vaddr    string
	service  string
	method   string
	name     string
	port     string
	size     uint64
}

var hashOpts hashOptions

func init() {
	f := hashCmd.Flags()
	f.StringVar(&hashOpts.source, "source", "", "data source id")
	f.StringVar(&hashOpts.instance, "instance", "", "instance number")
	f.StringVar(&hashOpts.cycle, "cycle", "", "cycle id")
	f.StringVar(&hashOpts.vaddr, "vaddr", "", "virtual address")
	f.StringVar(&hashOpts.service, "service", "", "Ethernet service id")
	f.StringVar(&hashOpts.method, "method", "", "Ethernet method id")
	f.StringVar(&hashOpts.name, "name", "", "fold a processor URL into the identity hash")
	f.StringVar(&hashOpts.port, "port", "", "manual port name, ignores the identity flags")
	f.Uint64Var(&hashOpts.size, "size", 0, "manual port size")
}

func (o hashOptions) identity() (core.PackageIdentity, error) {
	var id core.PackageIdentity
	source, err := parseUint("source", o.source, 16)
	if err != nil {
		return id, err
	}
	instance, err := parseUint("instance", o.instance, 32)
	if err != nil {
		return id, err
	}
	cycle, err := parseUint("cycle", o.cycle, 32)
	if err != nil {
		return id, err
	}
	vaddr, err := parseUint("vaddr", o.vaddr, 64)
	if err != nil {
		return id, err
	}
	service, err := parseUint("service", o.service, 16)
	if err != nil {
		return id, err
	}
	method, err := parseUint("method", o.method, 32)
	if err != nil {
		return id, err
	}
	return core.PackageIdentity{
		SourceID:       uint16(source),
		InstanceNumber: uint32(instance),
		CycleID:        uint32(cycle),
		VirtualAddress: vaddr,
		ServiceID:      uint16(service),
		MethodID:       uint32(method),
	}, nil
}

func runHash(w io.Writer, opts hashOptions) error {
	if opts.port != "" {
		fmt.Fprintf(w, "%d\n", hash.HashManualPort(opts.port, opts.size))
		return nil
	}

	id, err := opts.identity()
	if err != nil {
		return err
	}
	if opts.name != "" {
		fmt.Fprintf(w, "%d\n", hash.HashWithName(id, opts.name))
		return nil
	}
	fmt.Fprintf(w, "%d\n", hash.Hash(id))
	return nil
}
