package main

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"campusmarket/internal/app"
	bizRepo "campusmarket/internal/business"
	"campusmarket/internal/engagement"
	handlersBusiness "campusmarket/internal/handlers/business"
	handlersProduct "campusmarket/internal/handlers/product"
	handlersRental "campusmarket/internal/handlers/rental"
	handlersUser "campusmarket/internal/handlers/user"
	"campusmarket/internal/kafka"
	"campusmarket/internal/middleware"
	prodRepo "campusmarket/internal/product"
	rentRepo "campusmarket/internal/rental"
	"campusmarket/internal/session"
	"campusmarket/internal/user"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	_ "github.com/lib/pq"
)

const cfgPath = "config/config.yaml"

func main() {
	// init logger
	zapLogger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}

	logger := zapLogger.Sugar()
	defer func() {
		if err := zapLogger.Sync(); err != nil {
			logger.Warnf("error to sync logger: %v", err)
		}
	}()

	// parse config
	c, err := app.NewConfig(cfgPath)
	if err != nil {
		logger.Fatalf("error to parsing config: %v", err)
	}

	// init db
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s "+"password=%s dbname=%s sslmode=disable",
		c.CfgDB.Host, c.CfgDB.Port, c.CfgDB.Login, c.CfgDB.Password, c.CfgDB.Database,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		logger.Fatalf("error to database start: %v", err)
	}

	db.SetMaxOpenConns(c.MaxOpenConns)
	if err := db.Ping(); err != nil {
		logger.Infof("Failed to get response to ping: %v", err)
	}

	// init redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     c.RedisAddr,
		Password: "",
		DB:       0,
	})

	// init kafka producer
	producer := kafka.NewProducer([]string{c.CfgKafka.Brokers}, c.CfgKafka.Topic, logger)
	defer func() { _ = producer.Close() }() // nolint:errcheck

	// init repository
	userRepository := user.NewUserDBRepository(db, logger)
	sessionRepository := session.NewSessionRepository(redisClient, logger, c.Secret, c.SessionDuration)
	productRepository := prodRepo.NewProductDBRepository(db, logger)
	rentalRepository := rentRepo.NewRentalDBRepository(db, logger)
	businessRepository := bizRepo.NewBusinessDBRepository(db, logger)
	engagementRepository := engagement.NewEngagementDBRepository(db, logger)

	// init router
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware)
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// init handlers
	userHandlers := handlersUser.NewUserHandler(logger, userRepository, sessionRepository)
	productHandlers := handlersProduct.NewProductHandler(logger, productRepository, engagementRepository, producer)
	rentalHandlers := handlersRental.NewRentalHandler(logger, rentalRepository, engagementRepository, producer)
	businessHandlers := handlersBusiness.NewBusinessHandler(logger, businessRepository, engagementRepository, producer)

	// routes requiring authorization
	authRouter := r.PathPrefix("/api").Subrouter()
	authRouter.Use(middleware.Auth(sessionRepository, logger))

	authRouter.HandleFunc("/auth/profile", userHandlers.Profile).Methods("GET")
	authRouter.HandleFunc("/users/{id}", userHandlers.ChangeProfile).Methods("PUT")

	// every marketplace route carries the bearer credential, reads included,
	// so engagement events always resolve to a user
	authRouter.HandleFunc("/marketplace/products", productHandlers.List).Methods("GET")
	authRouter.HandleFunc("/marketplace/products", productHandlers.Create).Methods("POST")
	authRouter.HandleFunc("/marketplace/products/{id}", productHandlers.GetByID).Methods("GET")
	authRouter.HandleFunc("/marketplace/products/{id}/like", productHandlers.ToggleLike).Methods("POST")

	authRouter.HandleFunc("/marketplace/rentals", rentalHandlers.List).Methods("GET")
	authRouter.HandleFunc("/marketplace/rentals", rentalHandlers.Create).Methods("POST")
	authRouter.HandleFunc("/marketplace/rentals/{id}", rentalHandlers.GetByID).Methods("GET")
	authRouter.HandleFunc("/marketplace/rentals/{id}/like", rentalHandlers.ToggleLike).Methods("POST")

	authRouter.HandleFunc("/marketplace/businesses", businessHandlers.List).Methods("GET")
	authRouter.HandleFunc("/marketplace/businesses", businessHandlers.Create).Methods("POST")
	authRouter.HandleFunc("/marketplace/businesses/{id}", businessHandlers.GetByID).Methods("GET")
	authRouter.HandleFunc("/marketplace/businesses/{id}/like", businessHandlers.ToggleLike).Methods("POST")

	// routes NOT requiring authorization
	noAuthRouter := r.PathPrefix("/api").Subrouter()

	noAuthRouter.HandleFunc("/auth/signup", userHandlers.Signup).Methods("POST")
	noAuthRouter.HandleFunc("/auth/login", userHandlers.Login).Methods("POST")
	noAuthRouter.HandleFunc("/users/{id}", userHandlers.Info).Methods("GET")

	logger.Infow("starting server",
		"type", "START",
		"addr", c.ServerPort,
	)

	srv := &http.Server{
		Addr:         c.ServerPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		panic("can't start server: " + err.Error())
	}
}
