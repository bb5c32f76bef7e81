// Command importar_precios actualiza precios de venta desde un archivo "codigo;precio".
//
//	go run ./cmd/importar_precios -archivo lista.csv [-dry-run]
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/jhoicas/Distribuidora-api/internal/application/dto"
	"github.com/jhoicas/Distribuidora-api/internal/application/usecase"
	"github.com/jhoicas/Distribuidora-api/internal/application/validation"
	"github.com/jhoicas/Distribuidora-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Distribuidora-api/internal/infrastructure/pricefile"
	"github.com/jhoicas/Distribuidora-api/pkg/config"
	"github.com/jhoicas/Distribuidora-api/pkg/logger"
)

func main() {
	path := flag.String("archivo", "", "archivo codigo;precio (UTF-8 o ISO-8859-1)")
	dryRun := flag.Bool("dry-run", false, "solo validar, sin actualizar precios")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	if *path == "" {
		log.Fatal().Msg("falta -archivo")
	}

	f, err := os.Open(*path)
	if err != nil {
		log.Fatal().Err(err).Str("archivo", *path).Msg("abrir archivo")
	}
	res, err := pricefile.Read(f)
	f.Close()
	if err != nil {
		log.Fatal().Err(err).Msg("leer lista de precios")
	}
	for _, msg := range res.Skipped {
		log.Warn().Msg(msg)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	uc := usecase.NewProductUseCase(
		postgres.NewProductRepository(pool),
		postgres.NewPriceGateway(postgres.NewRPCClient(pool)),
		validation.New(cfg.Domain.PhoneRegion),
		log.Component("precios"),
	)

	ids, missing, err := uc.ResolveCodes(ctx, res.Codes())
	if err != nil {
		log.Fatal().Err(err).Msg("resolver códigos")
	}
	for _, code := range missing {
		log.Warn().Str("codigo", code).Msg("producto inexistente, se omite")
	}

	items := make([]dto.PriceItem, 0, len(ids))
	for _, row := range res.Rows {
		if id, ok := ids[row.Code]; ok {
			items = append(items, dto.PriceItem{ProductID: id, Price: row.Price})
		}
	}
	if len(items) == 0 {
		log.Warn().Msg("no hay precios para actualizar")
		return
	}
	if *dryRun {
		log.Info().Int("productos", len(items)).Msg("dry-run: sin cambios")
		return
	}

	out, err := uc.UpdatePrices(ctx, items)
	if err != nil {
		log.Fatal().Err(err).Msg("actualizar precios")
	}
	log.Info().
		Int("actualizados", out.Updated).
		Bool("fallback", out.Fallback).
		Int("omitidos", len(missing)+len(res.Skipped)).
		Msg("precios actualizados")
}
