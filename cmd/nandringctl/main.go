// Command nandringctl is a small operator tool for exercising a nand.Ring.
// There is no real NAND driver available to this repository, so
// nandringctl always mounts against a nandsim.Device sized from the
// loaded configuration; a deployment with a real driver would construct
// a nand.Ring against that driver instead using the same nand package
// API.
//
// Usage:
//
//	nandringctl -config ring.yaml dump
//	nandringctl -config ring.yaml append < records.bin
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/nandring/go-nandring/nand"
	"github.com/nandring/go-nandring/nandsim"
	"github.com/nandring/go-nandring/ringcfg"
	"github.com/nandring/go-nandring/ringlog"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("nandringctl", flag.ContinueOnError)
	configPath := fs.String("config", "ring.yaml", "path to ring config YAML")
	blocks := fs.Uint("device-blocks", 128, "simulated device block count")
	pagesPerBlock := fs.Uint("device-ppb", 64, "simulated device pages per block")
	pageDataSize := fs.Uint("device-page-size", 2048, "simulated device page data size")
	pageSpareSize := fs.Uint("device-spare-size", 64, "simulated device page spare size")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: nandringctl -config <file> <dump|append>")
	}

	runID := uuid.New()
	log := ringlog.NewDevelopment("nandringctl").With("run_id", runID)
	log.Infow("starting")
	defer log.Infow("stopping")

	fc, err := ringcfg.Load(*configPath)
	if err != nil {
		return err
	}
	if err := fc.Validate(); err != nil {
		return err
	}

	dev := nandsim.New(nandsim.Config{
		Blocks:        uint32(*blocks),
		PagesPerBlock: uint32(*pagesPerBlock),
		PageDataSize:  uint32(*pageDataSize),
		PageSpareSize: uint32(*pageSpareSize),
	}, log)
	clock := nandsim.NewFakeClock()

	r := nand.NewRing(dev, clock, log)
	r.Start(fc.RingConfig())
	if err := r.Mount(); err != nil {
		return fmt.Errorf("nandringctl: mount: %w", err)
	}

	switch fs.Arg(0) {
	case "dump":
		return dump(r)
	case "append":
		return appendFromStdin(r, dev.PageDataSize())
	default:
		return fmt.Errorf("nandringctl: unknown subcommand %q", fs.Arg(0))
	}
}

func dump(r *nand.Ring) error {
	total := r.TotalGood()
	fmt.Printf("cur_blk=%d cur_page=%d cur_id=%d total_good=%d\n",
		r.CurBlock(), r.CurPage(), r.CurID().ID, total)
	return nil
}

func appendFromStdin(r *nand.Ring, pageDataSize uint32) error {
	buf := make([]byte, pageDataSize)
	for {
		if _, err := io.ReadFull(os.Stdin, buf); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return nil
			}
			return err
		}
		if err := r.WritePage(buf); err != nil {
			return fmt.Errorf("nandringctl: write_page: %w", err)
		}
	}
}
