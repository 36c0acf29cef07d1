// Rbkcheck compares the sequential and the parallel reduce-by-key engines on
// generated data, and exits with status 1 if they disagree.
package main

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/exascience/keyreduce"
	"github.com/exascience/keyreduce/generate"
	"github.com/exascience/keyreduce/parallel"
	"github.com/exascience/keyreduce/system"
)

type config struct {
	sizes   []int
	seeds   []uint32
	batches int
	keys    int
	discard bool
	verbose bool
}

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(2)
	}

	zapLogger, err := configLogger(cfg.verbose).Build()
	if err != nil {
		panic(err)
	}
	defer zapLogger.Sync()
	zap.ReplaceGlobals(zapLogger)
	system.SetLogger(zapLogger)

	start := time.Now()
	if err := run(cfg); err != nil {
		for _, e := range multierr.Errors(err) {
			zap.S().Error(e)
		}
		zap.S().Fatalw("Engines disagree", "mismatches", len(multierr.Errors(err)))
	}
	zap.S().Infow("Engines agree", "cases", len(cfg.sizes)*len(cfg.seeds), "elapsed", time.Since(start))
}

func configLogger(verbose bool) zap.Config {
	if verbose {
		return zap.NewDevelopmentConfig()
	}
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	return config
}

func parseFlags(args []string) (cfg config, err error) {
	fs := flag.NewFlagSet("rbkcheck", flag.ContinueOnError)
	sizes := fs.String("sizes", "", "comma-separated input sizes (default: the test sizes)")
	seeds := fs.String("seeds", "", "comma-separated seeds (default: the test seeds)")
	fs.IntVar(&cfg.batches, "batches", 0, "number of parallel batches, 0 for a default based on GOMAXPROCS")
	fs.IntVar(&cfg.keys, "keys", 2, "number of distinct keys")
	fs.BoolVar(&cfg.discard, "discard", false, "discard the key output")
	fs.BoolVar(&cfg.verbose, "v", false, "verbose logging")
	if err = fs.Parse(args); err != nil {
		return
	}
	if cfg.batches < 0 {
		return cfg, errors.Errorf("invalid number of batches: %v", cfg.batches)
	}
	if cfg.keys < 1 {
		return cfg, errors.Errorf("invalid number of keys: %v", cfg.keys)
	}
	cfg.sizes = generate.Sizes()
	if *sizes != "" {
		cfg.sizes = nil
		for _, s := range strings.Split(*sizes, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil {
				return cfg, errors.Wrapf(err, "invalid size %q", s)
			}
			cfg.sizes = append(cfg.sizes, n)
		}
	}
	cfg.seeds = generate.Seeds()
	if *seeds != "" {
		cfg.seeds = nil
		for _, s := range strings.Split(*seeds, ",") {
			n, err := strconv.ParseUint(strings.TrimSpace(s), 0, 32)
			if err != nil {
				return cfg, errors.Wrapf(err, "invalid seed %q", s)
			}
			cfg.seeds = append(cfg.seeds, uint32(n))
		}
	}
	return
}

func run(cfg config) (err error) {
	for _, size := range cfg.sizes {
		for _, seed := range cfg.seeds {
			err = multierr.Append(err, errors.Wrapf(check(cfg, size, seed), "size %v, seed %v", size, seed))
		}
	}
	return
}

func check(cfg config, size int, seed uint32) error {
	keys, err := generate.Integers(size, 0, cfg.keys-1, seed)
	if err != nil {
		return err
	}
	values, err := generate.Integers(size, 0, uint32(1<<32-1), seed+generate.ValueSeedOffset)
	if err != nil {
		return err
	}

	hKeys, hValues := make(system.HostVector[int], size), make(system.HostVector[uint32], size)
	hn, hm := system.ReduceByKey(system.HostVector[int](keys), system.HostVector[uint32](values), hKeys, hValues)

	dKeys, dValues := make(system.DeviceVector[int], size), make(system.DeviceVector[uint32], size)
	var keysOut keyreduce.Output[int] = dKeys
	if cfg.discard {
		keysOut = keyreduce.Discard[int]{}
	}
	policy := parallel.Policy[int, uint32]{Batches: cfg.batches}
	dn, dm := system.ReduceByKeyOn[int, uint32](policy, keys, values, keysOut, dValues)

	zap.S().Debugw("Checked", "size", size, "seed", seed, "runs", hn)

	if err := checkCounts(hn, hm, dn, dm); err != nil {
		return err
	}
	for i := 0; i < hn; i++ {
		if !cfg.discard && (hKeys[i] != dKeys[i]) {
			err = multierr.Append(err, errors.Errorf("key %v: host %v, device %v", i, hKeys[i], dKeys[i]))
		}
		if hValues[i] != dValues[i] {
			err = multierr.Append(err, errors.Errorf("value %v: host %v, device %v", i, hValues[i], dValues[i]))
		}
	}
	return err
}

// checkCounts requires the key and value counts of both engines to agree.
func checkCounts(hostKeys, hostValues, deviceKeys, deviceValues int) error {
	if (hostKeys != hostValues) || (hostKeys != deviceKeys) || (hostKeys != deviceValues) {
		return errors.Errorf("run count mismatch: host %v/%v, device %v/%v",
			hostKeys, hostValues, deviceKeys, deviceValues)
	}
	return nil
}
