package main

import (
	"context"

	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AlinaLna/fooddeli-app/internal/app"
	"github.com/AlinaLna/fooddeli-app/internal/app/handlers"
	"github.com/AlinaLna/fooddeli-app/internal/app/middleware/metrics"
	"github.com/AlinaLna/fooddeli-app/internal/config"
	"github.com/AlinaLna/fooddeli-app/internal/jwt-new/jwtmiddleware"
	"github.com/AlinaLna/fooddeli-app/internal/lib/logger"
	"github.com/AlinaLna/fooddeli-app/internal/lib/logger/handlers/urllog"
	"github.com/AlinaLna/fooddeli-app/internal/service"
	"github.com/AlinaLna/fooddeli-app/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// загрузка конфигурации
	cfg := config.MustLoad()

	// инициализация логгера, зависит от настройки окружения
	log := logger.SetupLogger(cfg.Env)
	log.Info("starting app", slog.String("env", cfg.Env))

	// загружаем объект приложения, конфигом и подключением к БД
	application, err := app.NewApp(log, cfg)
	if err != nil {
		log.Error("failed to initialize app", slog.Any("error", err))
		panic(errors.Wrap(err, "failed to initialize app"))
	}
	defer application.DB.Close()

	router := chi.NewRouter()
	// настройка middleware
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)
	router.Use(metrics.Middleware)

	// реализация слоев по работе с БД по каждому направлению
	shopRepo := storage.NewShopRepository(application.DB)
	productRepo := storage.NewProductRepository(application.DB)
	cartRepo := storage.NewCartRepository(application.DB)
	addressRepo := storage.NewAddressRepository(application.DB)
	orderRepo := storage.NewOrderRepository(application.DB)
	voucherRepo := storage.NewVoucherRepository(application.DB)

	shopService := service.NewShopService(application.Logger, shopRepo)
	catalogService := service.NewCatalogService(application.Logger, productRepo)
	cartService := service.NewCartService(application.Logger, cartRepo, productRepo)
	addressService := service.NewAddressService(application.Logger, application.DB, addressRepo)
	voucherService := service.NewVoucherService(application.Logger, application.DB, voucherRepo, orderRepo)
	checkoutService := service.NewCheckoutService(application.Logger, application.DB,
		cartRepo, orderRepo, addressRepo, voucherRepo)

	// публичные эндпоинты: поиск магазинов и витрина не требуют токена
	router.Get("/api/shops/nearby", handlers.NearbyShopsHandler(application.Logger, shopService))
	router.Get("/api/shops/{shopID}/products", handlers.ShopProductsHandler(application.Logger, catalogService))
	router.Get("/api/products/available", handlers.AvailableProductsHandler(application.Logger, catalogService))
	router.Handle("/metrics", promhttp.Handler())

	router.Group(func(r chi.Router) {
		jwtMW := jwtmiddleware.NewJWTMiddleware(cfg.JWT.Secret)
		r.Use(jwtMW)

		// корзина
		r.Get("/api/cart", handlers.GetCartHandler(application.Logger, cartService))
		r.Post("/api/cart/items", handlers.AddCartItemHandler(application.Logger, cartService))
		r.Patch("/api/cart/items/{itemID}", handlers.UpdateCartItemHandler(application.Logger, cartService))
		r.Delete("/api/cart/items/{itemID}", handlers.RemoveCartItemHandler(application.Logger, cartService))

		// заказы и ваучеры
		r.Post("/api/orders", handlers.PlaceOrderHandler(application.Logger, checkoutService))
		r.Get("/api/orders/{orderID}", handlers.GetOrderHandler(application.Logger, checkoutService))
		r.Post("/api/orders/{orderID}/vouchers", handlers.AddOrderVoucherHandler(application.Logger, voucherService))
		r.Get("/api/orders/{orderID}/vouchers", handlers.ListOrderVouchersHandler(application.Logger, voucherService))
		r.Delete("/api/orders/{orderID}/vouchers", handlers.ClearOrderVouchersHandler(application.Logger, voucherService))
		r.Delete("/api/orders/{orderID}/vouchers/{voucherID}", handlers.RemoveOrderVoucherHandler(application.Logger, voucherService))

		// адреса пользователя
		r.Get("/api/addresses", handlers.ListAddressesHandler(application.Logger, addressService))
		r.Get("/api/addresses/default", handlers.DefaultAddressHandler(application.Logger, addressService))
		r.Post("/api/addresses", handlers.CreateAddressHandler(application.Logger, addressService))
		r.Patch("/api/addresses/{addressID}", handlers.UpdateAddressHandler(application.Logger, addressService))
		r.Put("/api/profile/address", handlers.CompleteProfileAddressHandler(application.Logger, addressService))

		// кабинет продавца
		r.Get("/api/shops/mine", handlers.MyShopHandler(application.Logger, shopService))
		r.Patch("/api/shops/{shopID}/status", handlers.UpdateShopStatusHandler(application.Logger, shopService))
		r.Patch("/api/products/{productID}/availability", handlers.UpdateAvailabilityHandler(application.Logger, catalogService))
		r.Patch("/api/products/{productID}/category", handlers.UpdateCategoryHandler(application.Logger, catalogService))
		r.Patch("/api/products/{productID}/prep-minutes", handlers.UpdatePrepMinutesHandler(application.Logger, catalogService))
	})

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.Any("error", err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	stopSign := <-stop
	log.Info("received shutdown signal", slog.String("signal", stopSign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", slog.Any("error", err))
	}
	log.Info("server gracefully stopped")
}
