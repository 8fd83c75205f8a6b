package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"guardian-chat/internal/alerts"
	"guardian-chat/internal/auth"
	"guardian-chat/internal/classifier"
	"guardian-chat/internal/config"
	"guardian-chat/internal/conversation"
	"guardian-chat/internal/db"
	"guardian-chat/internal/handlers"
	"guardian-chat/internal/middleware"
	"guardian-chat/internal/observability"
	"guardian-chat/internal/repositories"
	"guardian-chat/internal/telemetry"
	"guardian-chat/internal/ws"
)

const serviceName = "guardian-chat"

func main() {
	cfg := config.Load()

	shutdownTracing, err := telemetry.InitTracing(context.Background(), serviceName, cfg.OTLPEndpoint, cfg.Environment)
	if err != nil {
		log.Fatalf("failed to init tracing: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(ctx)
	}()

	database, err := db.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}

	var auditPublisher telemetry.Publisher
	if cfg.AMQPURL != "" {
		publisher, err := observability.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Printf("amqp disabled: %v", err)
		} else {
			observability.SetPublisher(publisher)
			auditPublisher = publisher
			defer publisher.Close()
			log.Printf("amqp connected exchange=%s", cfg.AMQPExchange)
		}
	}

	userRepo := repositories.NewUserRepo(database)
	messageRepo := repositories.NewMessageRepo(database)
	groupRepo := repositories.NewGroupRepo(database)
	alertRepo := repositories.NewAlertRepo(database)

	validator := auth.NewTokenValidator(cfg.JWTSecret)
	audit := telemetry.NewAuditEmitter(auditPublisher, observability.RoutingKeyAudit, serviceName, cfg.Environment)

	presence := ws.NewPresenceRegistry()
	rooms := ws.NewRoomRouter()

	dispatcher := alerts.NewDispatcher(alertRepo, userRepo, func(event string, data interface{}) {
		rooms.Deliver(conversation.MonitorRoom, ws.MarshalEvent(event, data))
	}, audit)

	cls := classifier.NewHTTPClient(cfg.ClassifierURL, cfg.ClassifierTimeout)

	coordinator := ws.NewCoordinator(presence, rooms, messageRepo, userRepo, cls, dispatcher, cfg.StorageTimeout)
	wsHandler := ws.NewHandler(coordinator, validator)

	alertHandler := handlers.NewAlertHandler(alertRepo, userRepo, audit)
	messageHandler := handlers.NewMessageHandler(messageRepo, groupRepo)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(observability.HTTPMetricsMiddleware())

	authMiddleware := middleware.AuthMiddleware(validator)
	monitorOnly := middleware.RequireMonitor()

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/conversations/:user_id/messages", authMiddleware, messageHandler.GetConversationMessages)
	router.GET("/groups", authMiddleware, messageHandler.ListGroups)
	router.GET("/groups/:group_id", authMiddleware, messageHandler.GetGroup)
	router.GET("/groups/:group_id/messages", authMiddleware, messageHandler.GetGroupMessages)

	router.GET("/alerts", authMiddleware, monitorOnly, alertHandler.ListAlerts)
	router.PATCH("/alerts/:alert_id/status", authMiddleware, monitorOnly, alertHandler.UpdateAlertStatus)
	router.GET("/alerts/stats", authMiddleware, monitorOnly, alertHandler.AlertStats)

	router.GET("/ws", wsHandler.Handle)

	handlers.RegisterDebugRoutes(router, audit, cfg.DebugRoutes)

	log.Printf("listening on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
