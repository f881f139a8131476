package main

import (
	"github.com/Cinfob09/Stats.cinfob/config"
	"github.com/Cinfob09/Stats.cinfob/models"
	"github.com/Cinfob09/Stats.cinfob/routes"
	"github.com/Cinfob09/Stats.cinfob/utils"
)

func main() {
	cfg := config.Load()

	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.User{}, &models.Connection{}, &models.Report{}, &models.SocialStat{})

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
