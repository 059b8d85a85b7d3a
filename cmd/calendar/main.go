package main

import (
	"time"

	"calview/internal/calendar/conflict"
	"calview/internal/calendar/dispatch"
	"calview/internal/calendar/gesture"
	calhandler "calview/internal/calendar/handler"
	"calview/internal/calendar/refresh"
	"calview/internal/calendar/service"
	"calview/internal/calendar/store"
	"calview/internal/calendar/validator"
	"calview/internal/calendar/view"
	prefshandler "calview/internal/prefs/handler"
	prefsrepository "calview/internal/prefs/repository"
	prefsservice "calview/internal/prefs/service"
	"calview/pkg/app"
	"calview/pkg/client"
	"calview/pkg/clock"
	"calview/pkg/config"
	"calview/pkg/kafka"
	kafkaconfig "calview/pkg/kafka/config"
	"calview/pkg/model"
	"calview/pkg/timegrid"
)

const ServiceName = "calendar"

func main() {
	cfg := config.Load(ServiceName)

	cfg.Log.Info("Starting Calendar service")
	cfg.SetMongo()

	kafkaCfg := kafkaconfig.Load()
	producer, err := kafka.NewProducer(kafkaCfg, kafkaCfg.BookingEventsTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create event producer", "error", err)
	}

	calendarService, poller := initCalendarService(cfg, producer)
	preferencesService := initPreferencesService(cfg)

	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		kafkaCfg.BookingEventsTopic,
		kafkaCfg.ConsumerGroupID,
		poller.EventHandler(),
		cfg.Log,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create event consumer", "error", err)
	}

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		calhandler.NewHealthHandler(cfg.Client.Mongo, cfg.Log),
		calhandler.NewCalendarHandler(calendarService, cfg.Log),
		prefshandler.NewPreferencesHandler(preferencesService, cfg.Log),
	)
	serverApp.AddWorker("refresh-poller", poller.Run)
	serverApp.AddWorker("booking-events-consumer", consumer.Start)
	serverApp.AddCloser("kafka-producer", producer.Close)
	serverApp.AddCloser("kafka-consumer", consumer.Close)
	serverApp.Run()
}

func initCalendarService(cfg *config.Config, producer *kafka.Producer) (service.CalendarService, *refresh.Poller) {
	bookingValidator := validator.NewBookingValidator(cfg.Log)

	bookingStore := store.New(clock.System(), store.Windows{
		Deleted:   cfg.DeletedBufferWindow,
		Status:    cfg.StatusBufferWindow,
		StaffPref: cfg.StaffPrefWindow,
		LocalOnly: cfg.LocalOnlyRetention,
	})

	dispatcher := dispatch.New(bookingStore, view.State{
		Mode:   view.ModeWeek,
		Anchor: time.Now().Format("2006-01-02"),
	})

	machine := gesture.NewMachine(gesture.Params{
		GridInterval: cfg.GridInterval,
		DayStartMin:  timegrid.ToMinutes(cfg.DayStart),
		DayEndMin:    timegrid.ToMinutes(cfg.DayEnd),
	}, func(c conflict.Check) *model.Booking {
		return conflict.Detect(c, dispatcher.Snapshot().Bookings)
	})

	bookingAPI := client.NewBookingAPIClient(cfg.BookingAPIBaseURL)

	calendarService := service.NewCalendarService(
		dispatcher,
		machine,
		bookingAPI,
		bookingValidator,
		producer,
		cfg,
	)
	poller := refresh.NewPoller(calendarService, cfg.RefreshInterval, cfg.Log)

	cfg.Log.Info("Calendar service initialized",
		"booking_api", cfg.BookingAPIBaseURL,
		"refresh_interval", cfg.RefreshInterval,
	)
	return calendarService, poller
}

func initPreferencesService(cfg *config.Config) prefsservice.PreferencesService {
	repo := prefsrepository.NewMongoPreferencesRepository(cfg)
	preferencesService := prefsservice.NewPreferencesService(repo, cfg)

	cfg.Log.Info("Preferences service initialized", "database", cfg.MongoDatabaseName)
	return preferencesService
}
