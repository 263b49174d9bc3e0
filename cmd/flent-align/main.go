package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml"
	log "github.com/sirupsen/logrus"

	"github.com/soohyunc/flent/align"
	"github.com/soohyunc/flent/combine"
	"github.com/soohyunc/flent/logger"
	"github.com/soohyunc/flent/resultset"
	"github.com/soohyunc/flent/series"
	"github.com/soohyunc/flent/table"
)

var (
	gitHash     = "(none)"
	showVersion = flag.Bool("version", false, "print version string")
	step        = flag.Float64("step", 0, "re-grid the time index to regular steps of this many seconds (0 keeps the union of sample times)")
	tolerance   = flag.Float64("tolerance", align.DefaultTolerance, "duplicate-merge tolerance for the time index, in seconds")
	specFile    = flag.String("spec", "", "TOML combine spec document (omit to output the aligned matrix)")
	title       = flag.String("title", "", "title to attach to the runs")
	output      = flag.String("output", "-", "output file (- for stdout)")
)

func init() {
	formatter := &logger.TextFormatter{}
	formatter.TimestampFormat = "2006-01-02 15:04:05.000"
	formatter.ModuleName = "flent-align"
	log.SetFormatter(formatter)
	log.SetLevel(log.InfoLevel)
}

func main() {
	flag.Usage = func() {
		fmt.Println("flent-align")
		fmt.Println()
		fmt.Println("Aligns raw measurement series onto one time index and optionally")
		fmt.Println("combines them across runs, writing a tab separated table.")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println()
		fmt.Printf("	flent-align [flags] [RUN:]SERIES=FILE ...\n")
		fmt.Println()
		fmt.Println("Each FILE holds one sample per line: \"<timestamp> <value>\", with - or")
		fmt.Println("nan marking a missing value. Arguments sharing a RUN prefix form one run;")
		fmt.Println("without a prefix everything goes into a single run.")
		fmt.Println()
		fmt.Println("Flags:")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("flent-align (built with %s, git hash %s)\n", runtime.Version(), gitHash)
		return
	}
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(-1)
	}

	aligner := &align.Aligner{Tolerance: *tolerance, Step: *step}

	byName := make(map[string]*resultset.RunRecord)
	var order []*resultset.RunRecord
	for _, arg := range flag.Args() {
		runName := "run-1"
		rest := arg
		if i := strings.Index(arg, ":"); i >= 0 {
			runName = arg[:i]
			rest = arg[i+1:]
		}
		name, path, ok := strings.Cut(rest, "=")
		if !ok {
			log.Fatalf("malformed argument %q, want [RUN:]SERIES=FILE", arg)
		}
		rec := byName[runName]
		if rec == nil {
			rec = resultset.NewRun(runName)
			rec.Title = *title
			byName[runName] = rec
			order = append(order, rec)
		}
		buf := series.NewBuffer(name, "")
		if err := rec.AddSeries(buf); err != nil {
			log.Fatalf("%s", err)
		}
		if err := readSamples(path, buf); err != nil {
			log.Fatalf("reading %q: %s", path, err)
		}
		log.Debugf("loaded %d samples for %s:%s", buf.Len(), runName, name)
	}

	rs := resultset.New("flent-align")
	for _, rec := range order {
		if err := rec.Finalize(aligner); err != nil {
			log.Fatalf("run %s: %s", rec.Name, err)
		}
		if err := rs.Add(rec); err != nil {
			log.Fatalf("run %s: %s", rec.Name, err)
		}
	}

	var tbl *table.Table
	switch {
	case *specFile != "":
		spec, err := loadSpec(*specFile)
		if err != nil {
			log.Fatalf("loading spec %q: %s", *specFile, err)
		}
		res, err := combine.NewEngine().Combine(rs, spec)
		if err != nil {
			log.Fatalf("combine: %s", err)
		}
		if res.Excluded > 0 {
			log.Infof("combined %d runs, excluded %d missing values", rs.Len(), res.Excluded)
		}
		tbl = res.Table()
	case rs.Len() == 1:
		tbl = rs.Run(0).Matrix().Table()
	default:
		catStep := *step
		if catStep <= 0 {
			catStep = 1
		}
		m, err := rs.Concatenate(catStep)
		if err != nil {
			log.Fatalf("concatenate: %s", err)
		}
		tbl = m.Table()
	}

	out := os.Stdout
	if *output != "-" {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatalf("creating %q: %s", *output, err)
		}
		defer f.Close()
		out = f
	}
	if err := tbl.WriteTSV(out); err != nil {
		log.Fatalf("writing output: %s", err)
	}
}

// readSamples feeds a raw sample file into the buffer. Format is one sample
// per line, "<timestamp> <value>", # starts a comment.
func readSamples(path string, b *series.Buffer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 2 {
			return fmt.Errorf("line %d: want \"<timestamp> <value>\", got %q", line, text)
		}
		t, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return fmt.Errorf("line %d: bad timestamp %q: %s", line, fields[0], err)
		}
		if fields[1] == "-" || strings.EqualFold(fields[1], "nan") {
			err = b.AppendMissing(t)
		} else {
			var v float64
			v, err = strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return fmt.Errorf("line %d: bad value %q: %s", line, fields[1], err)
			}
			err = b.Append(t, v)
		}
		if err != nil {
			return fmt.Errorf("line %d: %s", line, err)
		}
	}
	return scanner.Err()
}

type specDoc struct {
	Combine struct {
		Mode    string   `toml:"mode"`
		Series  string   `toml:"series"`
		Cutoff  []string `toml:"cutoff"`
		GroupBy string   `toml:"group_by"`
		Axis    int64    `toml:"axis"`
	} `toml:"combine"`
}

func loadSpec(path string) (combine.Spec, error) {
	tree, err := toml.LoadFile(path)
	if err != nil {
		return combine.Spec{}, err
	}
	var doc specDoc
	if err := tree.Unmarshal(&doc); err != nil {
		return combine.Spec{}, err
	}
	spec, err := combine.NewSpec(doc.Combine.Mode, doc.Combine.Series)
	if err != nil {
		return combine.Spec{}, err
	}
	switch len(doc.Combine.Cutoff) {
	case 0:
	case 2:
		w, err := combine.ParseWindow(doc.Combine.Cutoff[0], doc.Combine.Cutoff[1])
		if err != nil {
			return combine.Spec{}, err
		}
		spec.Cutoff = w
	default:
		return combine.Spec{}, fmt.Errorf("cutoff wants exactly [start, end], got %d entries", len(doc.Combine.Cutoff))
	}
	spec.GroupBy = doc.Combine.GroupBy
	spec.Axis = int(doc.Combine.Axis)
	return spec, nil
}
