// seed crea los locales iniciales y aprovisiona la cuenta administrativa (ADMIN_LOGIN/ADMIN_PASSWORD).
//
// Uso: go run ./cmd/seed [-f locales.txt] [Local ...]
// El archivo tiene un local por línea; las líneas vacías y las que empiezan con # se ignoran.
// Volver a ejecutarlo no duplica nada.
package main

import (
	"bufio"
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/aleman-inventario/internal/application/auth"
	"github.com/jhoicas/aleman-inventario/internal/application/usecase"
	"github.com/jhoicas/aleman-inventario/internal/infrastructure/storage"
	"github.com/jhoicas/aleman-inventario/pkg/config"
	"github.com/jhoicas/aleman-inventario/pkg/logger"
)

func main() {
	file := flag.String("f", "", "archivo con un local por línea")
	flag.Parse()

	names := flag.Args()
	if *file != "" {
		fromFile, err := readNames(*file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Leer %s: %v\n", *file, err)
			os.Exit(1)
		}
		names = append(names, fromFile...)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx := context.Background()
	store, err := storage.Open(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conectar almacenamiento: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	locations := usecase.NewLocationUseCase(store.Locations)
	for _, name := range names {
		loc, created, err := locations.Ensure(ctx, name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Local %q: %v\n", name, err)
			store.Close()
			os.Exit(1)
		}
		if created {
			log.Info().Str("id", loc.ID).Str("name", loc.Name).Msg("local creado")
		} else {
			log.Info().Str("name", loc.Name).Msg("local ya existía")
		}
	}

	authUC := auth.NewAuthUseCase(store.Users, store.Sessions, store.Locations, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)
	created, err := authUC.EnsureAdmin(ctx, cfg.Admin.Login, cfg.Admin.Password, cfg.Admin.Name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Aprovisionar administrador: %v\n", err)
		store.Close()
		os.Exit(1)
	}
	switch {
	case cfg.Admin.Login == "":
		log.Warn().Msg("ADMIN_LOGIN vacío: no se aprovisionó administrador")
	case created:
		log.Info().Str("login", cfg.Admin.Login).Msg("administrador creado")
	default:
		log.Info().Str("login", cfg.Admin.Login).Msg("administrador ya existía")
	}

	fmt.Printf("Listo: %d locales procesados\n", len(names))
}

// readNames lee un local por línea. Acepta UTF-8 o Windows-1252 (Bloc de notas / Excel).
func readNames(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(raw) {
		if raw, err = charmap.Windows1252.NewDecoder().Bytes(raw); err != nil {
			return nil, err
		}
	}
	var names []string
	sc := bufio.NewScanner(bytes.NewReader(raw))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	return names, sc.Err()
}
