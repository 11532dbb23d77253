// Package collection loads a complete annotation collection directory: the
// README, GFF3 gene models, FASTA sequences and TSV association tables.
package collection

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/inodb/annograph/internal/fasta"
	"github.com/inodb/annograph/internal/fileio"
	"github.com/inodb/annograph/internal/gff"
	"github.com/inodb/annograph/internal/graph"
	"github.com/inodb/annograph/internal/link"
	"github.com/inodb/annograph/internal/readme"
	"github.com/inodb/annograph/internal/region"
	"github.com/inodb/annograph/internal/sink"
	"github.com/inodb/annograph/internal/tsv"
)

// Options configures a Loader. Empty prefix lists fall back to the region
// package defaults.
type Options struct {
	ChromosomePrefixes  []string
	SupercontigPrefixes []string
	DomainPrefix        string
}

// Loader loads collection directories and writes each finished collection
// to a sink.
type Loader struct {
	opts   Options
	sink   sink.Sink
	logger *zap.Logger
}

// NewLoader creates a loader writing to s. A nil sink discards batches.
func NewLoader(s sink.Sink, opts Options) *Loader {
	if opts.DomainPrefix == "" {
		opts.DomainPrefix = gff.DefaultDomainPrefix
	}
	return &Loader{opts: opts, sink: s, logger: zap.NewNop()}
}

// SetLogger sets the logger for progress and warnings.
func (l *Loader) SetLogger(logger *zap.Logger) {
	l.logger = logger
}

// Scan classifies the files of dir. It requires exactly one README.
func Scan(dir string) (readmePath string, files []File, skipped []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", nil, nil, fmt.Errorf("read collection directory: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		kind, ok := Classify(e.Name())
		switch {
		case !ok:
			skipped = append(skipped, path)
		case kind == KindReadme:
			if readmePath != "" {
				return "", nil, nil, fmt.Errorf("collection %s: multiple README files", dir)
			}
			readmePath = path
		default:
			files = append(files, File{Path: path, Kind: kind})
		}
	}
	if readmePath == "" {
		return "", nil, nil, fmt.Errorf("collection %s: no README file", dir)
	}
	return readmePath, plan(files), skipped, nil
}

// Load ingests the collection in dir, finalizes it and writes it to the sink.
// The first error aborts the collection; nothing is written in that case.
func (l *Loader) Load(ctx context.Context, dir string) (*graph.Batch, error) {
	readmePath, files, skipped, err := Scan(dir)
	if err != nil {
		return nil, err
	}
	for _, path := range skipped {
		l.logger.Warn("skipping unrecognized file", zap.String("file", path))
	}

	rd, err := readme.Load(readmePath)
	if err != nil {
		return nil, err
	}
	cctx, err := rd.Context()
	if err != nil {
		return nil, err
	}
	log := l.logger.With(zap.String("collection", rd.Identifier))

	reg := graph.NewRegistry()
	proc := gff.NewProcessor(reg, cctx, region.NewPrefixes(
		l.opts.ChromosomePrefixes, l.opts.SupercontigPrefixes, cctx.AssemblyPrefix()))
	proc.SetLogger(log)
	proc.SetDomainPrefix(l.opts.DomainPrefix)
	linker := link.NewLinker(reg, cctx)
	linker.SetLogger(log)

	if err := l.addSource(reg, readmePath, KindReadme); err != nil {
		return nil, err
	}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := l.addSource(reg, f.Path, f.Kind); err != nil {
			return nil, err
		}
		if err := l.loadFile(proc, linker, f); err != nil {
			return nil, err
		}
	}

	batch, err := linker.Finalize(rd.Publication())
	if err != nil {
		return nil, err
	}
	if l.sink != nil {
		if err := l.sink.Write(ctx, batch); err != nil {
			return nil, fmt.Errorf("write collection %s: %w", batch.Collection, err)
		}
	}
	return batch, nil
}

func (l *Loader) addSource(reg *graph.Registry, path string, kind FileKind) error {
	fp, err := fileio.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	reg.AddSource(graph.DataSource{Path: fp.Path, Kind: string(kind), Size: fp.Size, ModTime: fp.ModTime})
	return nil
}

func (l *Loader) loadFile(proc *gff.Processor, linker *link.Linker, f File) error {
	r, err := fileio.Open(f.Path)
	if err != nil {
		return fmt.Errorf("open %s file: %w", f.Kind, err)
	}
	defer r.Close()

	switch f.Kind {
	case KindGFF3:
		return proc.Process(f.Path, r)
	case KindProtein:
		return l.loadFASTA(linker, f.Path, r, fasta.Protein)
	case KindCDS:
		return l.loadFASTA(linker, f.Path, r, fasta.CDS)
	case KindTranscript:
		return l.loadFASTA(linker, f.Path, r, fasta.Transcript)
	case KindGeneFamilies:
		rows, err := tsv.ReadFamilies(r)
		if err != nil {
			return withFile(f.Path, err)
		}
		for _, row := range rows {
			if err := linker.AssignFamily(row); err != nil {
				return &graph.RecordError{File: f.Path, Line: row.Line, Err: err}
			}
		}
		l.logger.Info("loaded gene families", zap.String("file", f.Path), zap.Int("rows", len(rows)))
	case KindPathways:
		rows, err := tsv.ReadPathways(r)
		if err != nil {
			return withFile(f.Path, err)
		}
		for _, row := range rows {
			if err := linker.AssignPathway(row); err != nil {
				return &graph.RecordError{File: f.Path, Line: row.Line, Err: err}
			}
		}
		l.logger.Info("loaded pathways", zap.String("file", f.Path), zap.Int("rows", len(rows)))
	case KindOntology:
		rows, err := tsv.ReadOntology(r)
		if err != nil {
			return withFile(f.Path, err)
		}
		for _, row := range rows {
			if err := linker.AnnotateOntology(row); err != nil {
				return &graph.RecordError{File: f.Path, Line: row.Line, Err: err}
			}
		}
		l.logger.Info("loaded ontology terms", zap.String("file", f.Path), zap.Int("rows", len(rows)))
	default:
		return fmt.Errorf("load %s: unsupported kind %s", f.Path, f.Kind)
	}
	return nil
}

func (l *Loader) loadFASTA(linker *link.Linker, path string, r io.Reader, kind fasta.Kind) error {
	reader := fasta.NewReader(r, kind)
	n := 0
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := linker.AttachSequence(kind, rec); err != nil {
			return fmt.Errorf("%s: record %s: %w", path, rec.ID, err)
		}
		n++
	}
	l.logger.Info("loaded sequences", zap.String("file", path), zap.Stringer("kind", kind), zap.Int("records", n))
	return nil
}

// withFile sets the file name on a record error.
func withFile(path string, err error) error {
	var re *graph.RecordError
	if errors.As(err, &re) {
		re.File = path
		return err
	}
	return fmt.Errorf("%s: %w", path, err)
}
