package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"crowdfund/internal/api"
	"crowdfund/internal/cache"
	"crowdfund/internal/repository"
	"crowdfund/internal/service"
	"crowdfund/pkg/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.Migrate(); err != nil {
			return err
		}
		logger.L.Info("migrations applied", "driver", cfg.DB.Driver)
		return nil
	},
}

// routes lists every registered route without opening a database.
var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List all registered HTTP routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		gin.SetMode(gin.ReleaseMode)
		services := service.NewServices(&repository.Repositories{}, cache.Nop{})
		infos := api.NewRouter(services).Routes()

		sort.Slice(infos, func(i, j int) bool {
			if infos[i].Path != infos[j].Path {
				return infos[i].Path < infos[j].Path
			}
			return infos[i].Method < infos[j].Method
		})

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tHANDLER")
		for _, ri := range infos {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Handler)
		}
		return w.Flush()
	},
}
