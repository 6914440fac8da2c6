package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/mux"

	"library-catalog/configs"
	"library-catalog/internal/daemon"
	"library-catalog/internal/db"
	"library-catalog/internal/handlers"
	"library-catalog/internal/middleware"
	"library-catalog/internal/service"
	"library-catalog/internal/utils"
	"library-catalog/internal/validation"
)

func main() {
	cfg := configs.LoadConfig()

	client, err := db.Connect(cfg.MongoURI)
	if err != nil {
		log.Fatalf("MongoDB connection error: %v", err)
	}
	defer client.Disconnect(context.Background())

	bookCol := db.GetCollection(client, cfg.DBName, cfg.BooksCollection)
	borrowCol := db.GetCollection(client, cfg.DBName, cfg.BorrowsCollection)
	auditCol := db.GetCollection(client, cfg.DBName, cfg.AuditLogsCollection)

	if err := db.EnsureIndexes(context.Background(), bookCol, borrowCol); err != nil {
		log.Fatalf("Index creation failed: %v", err)
	}

	auditLogger := utils.Logger{Collection: auditCol}
	validator := validation.New()

	bookHandler := handlers.NewBookHandler(service.NewBookService(bookCol), validator, auditLogger)
	borrowHandler := &handlers.BorrowHandler{
		Service:     service.NewBorrowService(bookCol, borrowCol),
		Validator:   validator,
		AuditLogger: auditLogger,
	}

	r := mux.NewRouter()
	r.Use(middleware.CORSMiddleware)
	r.Use(middleware.JSONMiddleware)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "OK")
	})
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"message":"Library Management System Backend API","database":"`+cfg.DBName+`","status":"Connected"}`)
	}).Methods("GET")

	r.HandleFunc("/books", bookHandler.AddBook).Methods("POST")
	r.HandleFunc("/books", bookHandler.GetBooks).Methods("GET")
	r.HandleFunc("/books/available", bookHandler.GetAvailableBooks).Methods("GET")
	r.HandleFunc("/books/search", bookHandler.SearchBooks).Methods("GET")
	r.HandleFunc("/books/{id}", bookHandler.GetBook).Methods("GET")
	r.HandleFunc("/books/{id}", bookHandler.UpdateBook).Methods("PUT")
	r.HandleFunc("/books/{id}", bookHandler.DeleteBook).Methods("DELETE")

	r.HandleFunc("/borrows", borrowHandler.CreateBorrow).Methods("POST")
	r.HandleFunc("/borrows", borrowHandler.GetActiveBorrows).Methods("GET")
	r.HandleFunc("/borrows/overdue", borrowHandler.GetOverdueBorrows).Methods("GET")
	r.HandleFunc("/borrows/phone/{phone}", borrowHandler.GetBorrowsByPhone).Methods("GET")
	r.HandleFunc("/borrows/{id}/return", borrowHandler.ReturnBorrow).Methods("PUT")

	exporter := daemon.LogExporter{Coll: auditCol, Interval: cfg.AuditExportInterval}
	exporter.InitLogExporter()

	var server = http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Println("Server starting on port", cfg.Port)
		log.Fatal(server.ListenAndServe())
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	log.Println("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Graceful shutdown failed: %v", err)
	}
	log.Println("Server shut down.")
}
