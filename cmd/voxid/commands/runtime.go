package commands

import (
	"context"

	"github.com/voxidlab/voxid/pkg/audio/fbank"
	"github.com/voxidlab/voxid/pkg/cli"
	"github.com/voxidlab/voxid/pkg/embed"
	"github.com/voxidlab/voxid/pkg/kv"
	"github.com/voxidlab/voxid/pkg/profile"
	"github.com/voxidlab/voxid/pkg/samplelog"
	"github.com/voxidlab/voxid/pkg/storage"
	"github.com/voxidlab/voxid/pkg/voiceid"
)

// runtime wires the stores and pipeline a command needs. Everything is
// local: a JSON profile document, a Badger sample log, and a WAV
// archive on the filesystem.
type runtime struct {
	cfg     *cli.Config
	styles  cli.Styles
	store   *profile.Store
	archive *voiceid.WavArchive
	samples *samplelog.Log
	db      *kv.Badger
}

// openRuntime builds the runtime from the loaded config.
func openRuntime() (*runtime, error) {
	cfg, err := getConfig()
	if err != nil {
		return nil, err
	}

	files, err := storage.NewLocal(cfg.ArchiveDir)
	if err != nil {
		return nil, err
	}
	archive := voiceid.NewWavArchive(files)

	db, err := kv.NewBadger(kv.BadgerOptions{Dir: cfg.SampleLogDir})
	if err != nil {
		return nil, err
	}
	samples := samplelog.New(db)

	store := profile.New(cfg.ProfilePath, &profile.Options{
		SampleRate: cfg.SampleRate,
		Purger:     multiPurger{archive, samples},
	})

	return &runtime{
		cfg:     cfg,
		styles:  cli.NewStyles(cli.DefaultTheme),
		store:   store,
		archive: archive,
		samples: samples,
		db:      db,
	}, nil
}

func (r *runtime) Close() error {
	return r.db.Close()
}

// extractor returns the built-in spectral embedder at the configured
// rate.
func (r *runtime) extractor() *embed.Spectral {
	cfg := fbank.DefaultConfig()
	cfg.SampleRate = r.cfg.SampleRate
	return embed.NewSpectral(cfg)
}

// session assembles the identification session over the given capture
// sources.
func (r *runtime) session(inputs []string) *voiceid.Session {
	return &voiceid.Session{
		Store:     r.store,
		Recorder:  newWavRecorder(inputs),
		Extractor: r.extractor(),
		Archive:   r.archive,
		Samples:   r.samples,
	}
}

// multiPurger fans profile purges out to every artifact store.
type multiPurger []profile.Purger

func (m multiPurger) PurgeUser(ctx context.Context, name string) error {
	for _, p := range m {
		if err := p.PurgeUser(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

func (m multiPurger) PurgeAll(ctx context.Context) error {
	for _, p := range m {
		if err := p.PurgeAll(ctx); err != nil {
			return err
		}
	}
	return nil
}
