package config

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var DB *mongo.Database

func ConnectDB() {
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not found, using system env vars")
	}

	mongoURI := os.Getenv("MONGO_URI")
	dbName := os.Getenv("DB_NAME")

	if mongoURI == "" {
		log.Fatal("MONGO_URI is not set")
	}
	if dbName == "" {
		dbName = "weblog"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatal("mongo connect failed: ", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal("mongo ping failed: ", err)
	}

	slog.Info("connected to MongoDB", "db", dbName)
	DB = client.Database(dbName)
}

func GetCollection(collectionName string) *mongo.Collection {
	if DB == nil {
		log.Fatal("database connection is not initialized")
	}
	return DB.Collection(collectionName)
}
