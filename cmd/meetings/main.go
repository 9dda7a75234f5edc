package main

import (
	availabilityhandler "unimeet/internal/availability/handler"
	availabilityrepo "unimeet/internal/availability/repository"
	availabilityservice "unimeet/internal/availability/service"
	meetinghandler "unimeet/internal/meetings/handler"
	"unimeet/internal/meetings/notifier"
	meetingrepo "unimeet/internal/meetings/repository"
	meetingservice "unimeet/internal/meetings/service"
	"unimeet/pkg/app"
	"unimeet/pkg/clock"
	"unimeet/pkg/config"
	"unimeet/pkg/contracts"
	"unimeet/pkg/kafka"
)

func main() {
	cfg := config.Load("meetings")
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	meetingRepo := meetingrepo.NewMongoMeetingRepository(cfg)
	holdRepo := meetingrepo.NewMongoHoldRepository(cfg)
	auditRepo := meetingrepo.NewMongoAuditRepository(cfg)
	availabilityRepo := availabilityrepo.NewMongoAvailabilityRepository(cfg)

	meetingNotifier := buildNotifier(cfg)

	meetingSvc := meetingservice.NewMeetingService(
		cfg,
		meetingRepo,
		holdRepo,
		auditRepo,
		availabilityRepo,
		meetingNotifier,
		clock.System(),
	)
	availabilitySvc := availabilityservice.NewAvailabilityService(cfg, availabilityRepo)

	meetingHandler := meetinghandler.NewMeetingHandler(meetingSvc, cfg.Log)
	availabilityHandler := availabilityhandler.NewAvailabilityHandler(availabilitySvc, cfg.Log)

	application := app.NewApplication(cfg)
	application.SetApp(contracts.Compose(meetingHandler, availabilityHandler))
	application.Run()
}

// buildNotifier wires Kafka when brokers are configured and falls back to a
// noop otherwise, so the service runs without a broker in development.
func buildNotifier(cfg *config.Config) notifier.Notifier {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("No Kafka brokers configured, meeting events disabled")
		return notifier.NewNoopNotifier()
	}

	producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.MeetingEventsTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	cfg.Log.Info("Kafka notifier enabled",
		"brokers", cfg.KafkaBrokers,
		"topic", cfg.MeetingEventsTopic,
	)
	return notifier.NewKafkaNotifier(producer, cfg.Log)
}
