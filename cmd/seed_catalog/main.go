// seed_catalog carga el catálogo de productos en PostgreSQL desde un CSV
// (name,category,unit[,id]). Los productos ya existentes se omiten, así que
// puede ejecutarse más de una vez.
//
// Uso: go run ./cmd/seed_catalog [-charset iso-8859-1] catalogo.csv
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/bimal-bp/DPR/internal/domain"
	"github.com/bimal-bp/DPR/internal/infrastructure/catalog"
	"github.com/bimal-bp/DPR/internal/infrastructure/postgres"
	"github.com/bimal-bp/DPR/pkg/config"
	"github.com/bimal-bp/DPR/pkg/logger"
)

func main() {
	charset := flag.String("charset", catalog.CharsetUTF8, "codificación del CSV (utf-8 | iso-8859-1)")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: seed_catalog [-charset iso-8859-1] catalogo.csv")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Named("seed_catalog")

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Msg("abrir CSV")
	}
	defer f.Close()

	products, err := catalog.Load(f, *charset)
	if err != nil {
		log.Fatal().Err(err).Msg("leer catálogo")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	repo := postgres.NewProductRepository(pool)
	var created, skipped int
	for i := range products {
		err := repo.Create(ctx, &products[i])
		switch {
		case err == nil:
			created++
		case errors.Is(err, domain.ErrConflict):
			skipped++
			log.Debug().Str("name", products[i].Name).Msg("producto existente, omitido")
		default:
			log.Fatal().Err(err).Str("name", products[i].Name).Msg("insertar producto")
		}
	}
	log.Info().Int("created", created).Int("skipped", skipped).Msg("catálogo cargado")
}
