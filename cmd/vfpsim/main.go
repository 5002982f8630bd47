// Package main provides the vfpsim command line interface. It decodes
// and translates instruction word streams, optionally executes them,
// and reports translation cache statistics.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sarchlab/vfpsim/emu"
	"github.com/sarchlab/vfpsim/insts"
	"github.com/sarchlab/vfpsim/ir"
	"github.com/sarchlab/vfpsim/riscv"
	"github.com/sarchlab/vfpsim/statsview"
	"github.com/sarchlab/vfpsim/tbcache"
	"github.com/sarchlab/vfpsim/translate"
)

var (
	isa       = flag.String("isa", "vfp", "Instruction set: vfp or riscv")
	execute   = flag.Bool("run", false, "Execute the translated programs")
	printIR   = flag.Bool("print", false, "Print the translated programs")
	useCache  = flag.Bool("cache", false, "Cache translations and report statistics")
	mprofile  = flag.Bool("mprofile", false, "Translate with M-profile features")
	secure    = flag.Bool("secure", false, "M-profile secure state")
	startPC   = flag.Uint64("pc", 0x8000, "Address of the first instruction")
	statsFlag = flag.Bool("statsview", false, "Launch the runtime stats server")
	verbose   = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: vfpsim [options] <words.hex | word...>\n")
		fmt.Fprintf(os.Stderr, "\nWords are 32-bit hex values, one per line in a file\n")
		fmt.Fprintf(os.Stderr, "or directly on the command line.\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if *statsFlag {
		if statsview.Available() {
			statsview.Launch(os.Stdout)
		} else {
			fmt.Fprintln(os.Stderr,
				"stats server not compiled in; build with -tags statsview")
		}
	}

	words, err := loadWords(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading words: %v\n", err)
		os.Exit(1)
	}

	var exitCode int
	switch *isa {
	case "vfp":
		exitCode = runVFP(words)
	case "riscv":
		exitCode = runRISCV(words)
	default:
		fmt.Fprintf(os.Stderr, "Unknown ISA %q\n", *isa)
		exitCode = 1
	}
	os.Exit(exitCode)
}

// loadWords reads instruction words from a file argument or directly
// from the command line.
func loadWords(args []string) ([]uint32, error) {
	if len(args) == 1 {
		if f, err := os.Open(args[0]); err == nil {
			defer f.Close()
			return parseWordFile(f.Name(), f)
		}
	}

	words := make([]uint32, 0, len(args))
	for _, arg := range args {
		w, err := parseWord(arg)
		if err != nil {
			return nil, err
		}
		words = append(words, w)
	}
	return words, nil
}

func parseWordFile(name string, f *os.File) ([]uint32, error) {
	var words []uint32
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = strings.TrimSpace(text[:i])
		}
		if text == "" {
			continue
		}
		w, err := parseWord(text)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", name, line, err)
		}
		words = append(words, w)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return words, nil
}

func parseWord(text string) (uint32, error) {
	text = strings.TrimPrefix(strings.TrimPrefix(text, "0x"), "0X")
	v, err := strconv.ParseUint(text, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("bad instruction word %q: %w", text, err)
	}
	return uint32(v), nil
}

// vfpFeatures builds the feature set from the profile flags.
func vfpFeatures() translate.Features {
	if !*mprofile {
		return translate.DefaultFeatures()
	}
	return translate.Features{
		FPSP:     true,
		FPDP:     true,
		FPv3:     true,
		FP16:     true,
		V8:       true,
		V81M:     true,
		MProfile: true,
		Secure:   *secure,
	}
}

// translationFlags packs the control state a translation specializes
// on into a cache key component.
func translationFlags(ctx *translate.Context) uint32 {
	flags := ctx.VecStride<<4 | ctx.VecLen
	if ctx.VFPEnabled {
		flags |= 1 << 8
	}
	return flags
}

func runVFP(words []uint32) int {
	decoder := insts.NewDecoder()
	translator := translate.NewTranslator(translate.WithFeatures(vfpFeatures()))

	var cache *tbcache.Cache
	if *useCache {
		cache = tbcache.New(tbcache.DefaultConfig())
	}

	var evaluator *emu.Evaluator
	if *execute {
		evaluator = emu.NewEvaluator(emu.NewState())
	}

	pc := uint32(*startPC)
	for _, word := range words {
		ctx := translate.NewContext(pc)
		if evaluator != nil {
			state := evaluator.State()
			ctx.VecLen = state.VecLen()
			ctx.VecStride = state.VecStride()
		}

		var prog *ir.Program
		if cache != nil {
			prog = cache.Get(pc, translationFlags(ctx))
		}
		if prog == nil {
			var ok bool
			prog, ok = translator.Translate(ctx, decoder.Decode(word))
			if !ok {
				fmt.Fprintf(os.Stderr,
					"0x%08X: word %08X is unallocated\n", pc, word)
				return 1
			}
			if cache != nil {
				cache.Put(pc, translationFlags(ctx), prog)
			}
		}

		if *printIR {
			fmt.Printf("0x%08X: %08X\n", pc, word)
			ir.Fprint(os.Stdout, prog)
		}

		if evaluator != nil {
			if err := evaluator.Run(prog); err != nil {
				fmt.Fprintf(os.Stderr, "0x%08X: %v\n", pc, err)
				return 1
			}
		}

		// Control-state changes invalidate downstream translations.
		if ctx.EndReason != translate.EndNone && cache != nil {
			cache.Reset()
		}

		pc += 4
	}

	if *verbose && evaluator != nil {
		dumpState(evaluator.State())
	}
	if cache != nil {
		dumpCacheStats(cache.Stats())
	}
	return 0
}

func runRISCV(words []uint32) int {
	if *execute {
		fmt.Fprintln(os.Stderr, "run mode supports the vfp ISA only")
		return 1
	}

	decoder := riscv.NewDecoder()
	translator := riscv.NewTranslator()

	pc := uint32(*startPC)
	for _, word := range words {
		ctx := riscv.NewContext(pc)
		prog, ok := translator.Translate(ctx, decoder.Decode(word))
		if !ok {
			fmt.Fprintf(os.Stderr,
				"0x%08X: word %08X is unallocated\n", pc, word)
			return 1
		}

		if *printIR {
			fmt.Printf("0x%08X: %08X\n", pc, word)
			ir.Fprint(os.Stdout, prog)
		}

		pc += 4
	}
	return 0
}

func dumpState(state *emu.State) {
	fmt.Println()
	for i := uint8(0); i < 8; i++ {
		fmt.Printf("S%-2d = 0x%08X  ", i, state.ReadS(i))
		if i%4 == 3 {
			fmt.Println()
		}
	}
	for i := uint8(0); i < 4; i++ {
		fmt.Printf("D%-2d = 0x%016X\n", i, state.ReadD(i))
	}
	fmt.Printf("FPSCR = 0x%08X\n", state.GetFPSCR())
}

func dumpCacheStats(stats tbcache.Statistics) {
	fmt.Println()
	fmt.Printf("Translation cache: %d lookups, %d hits, %d misses, %d evictions\n",
		stats.Lookups, stats.Hits, stats.Misses, stats.Evictions)
}
