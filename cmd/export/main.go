// Command export genera el workbook analítico para un rango de fechas sin pasar por la API.
//
//	go run ./cmd/export -desde 2024-01-01 -hasta 2024-01-31 -out analytics.xlsx
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/jhoicas/Distribuidora-api/internal/application/analytics"
	"github.com/jhoicas/Distribuidora-api/internal/application/dto"
	"github.com/jhoicas/Distribuidora-api/internal/infrastructure/excel"
	"github.com/jhoicas/Distribuidora-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Distribuidora-api/pkg/config"
	"github.com/jhoicas/Distribuidora-api/pkg/logger"
)

func main() {
	from := flag.String("desde", "", "fecha inicial YYYY-MM-DD")
	to := flag.String("hasta", "", "fecha final YYYY-MM-DD")
	out := flag.String("out", "", "archivo de salida (por defecto analytics_<desde>_<hasta>.xlsx)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	uc := analytics.NewExportUseCase(
		postgres.NewAnalyticsRepository(pool),
		postgres.NewUserRepository(pool),
		excel.NewWorkbookWriter(),
		log.Component("analytics"),
	)

	// se arma antes de crear el archivo para no dejar uno vacío si falla un dataset
	wb, err := uc.Build(ctx, dto.ExportRequest{From: *from, To: *to})
	if err != nil {
		log.Fatal().Err(err).Msg("armar exportación")
	}
	path := *out
	if path == "" {
		path = wb.FileName
	}
	f, err := os.Create(path)
	if err != nil {
		log.Fatal().Err(err).Str("archivo", path).Msg("crear archivo")
	}
	if err := excel.NewWorkbookWriter().Write(f, wb); err != nil {
		f.Close()
		_ = os.Remove(path)
		log.Fatal().Err(err).Msg("escribir workbook")
	}
	if err := f.Close(); err != nil {
		log.Fatal().Err(err).Msg("cerrar archivo")
	}

	ev := log.Info().Str("archivo", path)
	for _, s := range wb.Sheets {
		ev = ev.Int(s.Name, len(s.Rows))
	}
	ev.Msg("exportación generada")
}
