package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
	"github.com/wajahatariq/twhspecfastapi/api"
	"github.com/wajahatariq/twhspecfastapi/api/handlers"
	"github.com/wajahatariq/twhspecfastapi/internal/data"
	"github.com/wajahatariq/twhspecfastapi/internal/live"
	"github.com/wajahatariq/twhspecfastapi/internal/sheet"
	"github.com/wajahatariq/twhspecfastapi/jobs"
	"github.com/wajahatariq/twhspecfastapi/utils"
)

var validate validator.Validate

func main() {
	cfg := &utils.Config{}

	flag.IntVar(&cfg.Port, "port", 3000, "Server port")
	flag.StringVar(&cfg.Env, "env", "development", "Environment")

	flag.IntVar(&cfg.RateLimiter.Rps, "limiter-rps", 50, "Rate limiter max requests per second")
	flag.IntVar(&cfg.RateLimiter.Burst, "limiter-burst", 50, "Rate limiter max burst")
	flag.BoolVar(&cfg.RateLimiter.Enabled, "limiter-enabled", false, "Rate limiter enabled")
	flag.StringVar(&cfg.JWT.Secret, "jwt-secret", utils.JWTSecret, "JWT secret")
	flag.StringVar(&cfg.JWT.Issuer, "jwt-issuer", utils.JWTIssuer, "JWT issuer")
	flag.StringVar(&cfg.Sheets.SpreadsheetID, "spreadsheet-id", utils.SpreadsheetID, "Backing spreadsheet id")
	flag.StringVar(&cfg.Sheets.ServiceAccountFile, "service-account-file", utils.ServiceAccountFile, "Service account key file")
	flag.StringVar(&cfg.Timezone, "timezone", utils.Timezone, "Timezone for all timestamps")

	flag.Parse()
	cfg.Sheets.ServiceAccountJSON = utils.ServiceAccountJSON
	log.SetHeader("${time_rfc3339} ${level}")

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatalf("error loading timezone %q: %v", cfg.Timezone, err)
	}

	client, err := sheet.NewClient(context.Background(), *cfg)
	if err != nil {
		log.Fatalf("error in opening spreadsheet; %v", err)
	}

	tables := map[data.Category]data.Table{
		data.CategorySpectrum:  client.Worksheet("Sheet1"),
		data.CategoryInsurance: client.Worksheet("Sheet2"),
	}
	users := client.Worksheet("Sheet3")

	validate = *validator.New()

	h := &handlers.Handlers{
		Config:   *cfg,
		Validate: validate,
		Utils:    utils.NewUtils(),
		Data:     data.NewModel(tables, users, loc),
		Hub:      live.NewHub(),
	}

	scheduler, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		log.Fatal("Error creating scheduler", err)
	}

	nightTotalAtTime := gocron.NewAtTime(6, 30, 0)
	nightTotalAtTimes := gocron.NewAtTimes(nightTotalAtTime)

	nightTotalJob, err := jobs.NightTotalJob(*h, scheduler, nightTotalAtTimes)
	if err != nil {
		log.Fatal("Error creating job: ", err)
	}

	fmt.Println("nightTotalJob started: ", nightTotalJob.ID())

	scheduler.Start()

	e := api.SetupRoutes(h)
	e.Server.ReadTimeout = time.Second * 10
	e.Server.WriteTimeout = time.Second * 20
	e.Server.IdleTimeout = time.Minute
	e.HideBanner = true
	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", cfg.Port)))
}
