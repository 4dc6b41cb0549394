package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "fleetdesk/internal/config"
	intdb "fleetdesk/internal/db"
	"fleetdesk/internal/domain"
	"fleetdesk/internal/domain/models"
	router "fleetdesk/internal/http"
	"fleetdesk/internal/http/handlers"
	"fleetdesk/internal/input"
	"fleetdesk/internal/lifecycle"
	"fleetdesk/internal/repositories"
	"fleetdesk/internal/services"
	"fleetdesk/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	env := intconfig.LoadEnv()
	utils.SetupLogger(utils.LogConfig{File: env.LogFile, Level: env.LogLevel})
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	store, err := openStore(env)
	if err != nil {
		logrus.WithError(err).Fatal("database unavailable")
	}
	defer intconfig.CloseDB()

	machine := lifecycle.NewMachine(store)
	defer machine.Close()
	gate := lifecycle.NewGate(store)

	tripSvc := services.TripService{Machine: machine, Trips: store, Location: env.Location}
	fitnessSvc := services.FitnessService{
		Shifts:     store,
		Thresholds: store,
		Location:   env.Location,
		Defaults: models.FatigueThresholds{
			MaxContinuousDriveHours: env.FatigueMaxContinuousHours,
			MinRestHours:            env.FatigueMinRestHours,
		},
		Concurrency: env.FleetFitnessConcurrency,
	}
	recordSvc := services.RecordService{Gate: gate, Incidents: store, Trips: tripSvc}
	if err := recordSvc.Register(machine); err != nil {
		logrus.WithError(err).Fatal("register machine hooks")
	}

	inputs := input.NewRouter(tripSvc, gate)
	inputs.OnResult(func(res input.Result) {
		if res.Err != nil {
			return
		}
		utils.LogEvent("", "router", string(res.Command.Action),
			fmt.Sprintf("source=%s trip_id=%d ok", res.Command.Source, res.Command.TripID))
	})
	inputs.Attach(context.Background(), domain.RequestContext{Role: domain.RoleDriver}, input.NewManualAdapter())
	defer inputs.Detach(input.SourceManual)

	r := router.NewRouter(env, handlers.Handlers{
		Trips:    tripSvc,
		Fitness:  fitnessSvc,
		Records:  recordSvc,
		Router:   inputs,
		Location: env.Location,
	})

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logrus.Infof("server listening on %s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logrus.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("server shutdown failed")
		return
	}

	logrus.Info("server stopped")
}

func openStore(env intconfig.Env) (repositories.Store, error) {
	switch env.DBDriver {
	case "postgres":
		db, err := intconfig.ConnectGorm(env.DBDSN)
		if err != nil {
			return nil, err
		}
		store := repositories.NewGormStore(db)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := store.AutoMigrate(ctx); err != nil {
			return nil, err
		}
		return store, nil
	default:
		db, err := intconfig.ConnectDB(env.DBDSN)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := intdb.EnsureSchema(ctx, db); err != nil {
			return nil, err
		}
		return repositories.NewMySQLStore(db), nil
	}
}
