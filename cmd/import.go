package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Laisky/errors/v2"
	gcmd "github.com/Laisky/go-utils/v6/cmd"
	"github.com/Laisky/zap"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/Laisky/movie-analytics/internal/web/movies/dto"
	"github.com/Laisky/movie-analytics/internal/web/movies/service"
	"github.com/Laisky/movie-analytics/library/config"
	"github.com/Laisky/movie-analytics/library/csvrows"
	"github.com/Laisky/movie-analytics/library/log"
)

type ingestFunc func(svc *service.Service, ctx context.Context, rows []csvrows.Row) (*dto.IngestResult, error)

var importCMD = &cobra.Command{
	Use:   "import",
	Short: "import movies or credits from a csv file",
	Args:  gcmd.NoExtraArgs,
}

var importMoviesCMD = newImportCMD("movies", "settings.ingest.movies_file", (*service.Service).IngestMovies)

var importCreditsCMD = newImportCMD("credits", "settings.ingest.credits_file", (*service.Service).IngestCredits)

func newImportCMD(kind, fileKey string, ingest ingestFunc) *cobra.Command {
	return &cobra.Command{
		Use:   kind,
		Short: "import " + kind + " synchronously",
		Args:  gcmd.NoExtraArgs,
		PreRun: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			if err := initialize(ctx, cmd); err != nil {
				log.Logger.Panic("init", zap.Error(err))
			}
		},
		Run: func(cmd *cobra.Command, args []string) {
			path, _ := cmd.Flags().GetString("file")
			if path == "" {
				path = config.DataFile(fileKey)
			}

			if err := runImport(cmd.Context(), kind, path, ingest); err != nil {
				log.Logger.Panic("import", zap.Error(err), zap.String("kind", kind))
			}
		},
	}
}

func runImport(ctx context.Context, kind, path string, ingest ingestFunc) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mods, err := setupModules(ctx)
	if err != nil {
		return errors.Wrap(err, "setup modules")
	}
	defer mods.Close(context.WithoutCancel(ctx))

	rows, err := csvrows.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read %s", path)
	}

	logger := log.Logger.Named("import").With(zap.String("kind", kind), zap.String("file", path))
	logger.Info("start import", zap.Int("rows", len(rows)))

	result, err := ingest(mods.svc, ctx, rows)
	if err != nil {
		return errors.Wrap(err, "ingest")
	}

	logger.Info("import finished",
		zap.Int("created", result.Created),
		zap.Int("failed", len(result.Failures)))
	return printJSON(result)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "encode result")
	}

	return nil
}

func init() {
	rootCMD.AddCommand(importCMD)
	for _, cmd := range []*cobra.Command{importMoviesCMD, importCreditsCMD} {
		importCMD.AddCommand(cmd)
		cmd.Flags().String("file", "", "csv file to import, defaults to the configured file")
	}
}
