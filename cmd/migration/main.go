package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/hugohenrick/sumy-api/internal/config"
	"github.com/hugohenrick/sumy-api/internal/infrastructure/database"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// Carregar variáveis de ambiente
	if err := godotenv.Load(); err != nil {
		log.Printf("Aviso: Arquivo .env não encontrado: %v", err)
	}

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var migrationsPath string

	root := &cobra.Command{
		Use:          "migration",
		Short:        "Gerencia o schema do banco de dados da SUMY API",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&migrationsPath, "path", "", "diretório das migrações (padrão: MIGRATIONS_PATH)")

	withMigrator := func(fn func(*database.Migrator) error) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if migrationsPath != "" {
			cfg.Database.MigrationsPath = migrationsPath
		}

		mg, err := database.NewMigrator(cfg.Database)
		if err != nil {
			return err
		}
		defer mg.Close()
		return fn(mg)
	}

	root.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Aplica todas as migrações pendentes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(func(mg *database.Migrator) error {
				if err := mg.Up(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Migrações executadas com sucesso!")
				return nil
			})
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "down [passos]",
		Short: "Reverte as últimas migrações (1 por padrão)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n <= 0 {
					return fmt.Errorf("quantidade de passos inválida: %q", args[0])
				}
				steps = n
			}

			return withMigrator(func(mg *database.Migrator) error {
				if err := mg.Down(steps); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d migração(ões) revertida(s)\n", steps)
				return nil
			})
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Mostra a versão atual do schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(func(mg *database.Migrator) error {
				v, dirty, err := mg.Version()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "versão: %d (dirty: %t)\n", v, dirty)
				return nil
			})
		},
	})

	return root
}
