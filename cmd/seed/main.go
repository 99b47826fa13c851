package main

import (
	"context"
	"log"
	"os"
	"time"

	"aura-backend/internal/config"
	"aura-backend/internal/db"
	"aura-backend/internal/users"
	"aura-backend/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type seedService struct {
	Title            string
	ShortDescription string
	Description      string
	Published        bool
}

type seedUser struct {
	Name        string
	Email       string
	Role        string
	PasswordEnv string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		log.Fatal(err)
	}

	services := []seedService{
		{Title: "Web Development", ShortDescription: "Fast, accessible websites.", Description: "Custom sites and web apps built to convert.", Published: true},
		{Title: "SEO & Marketing", ShortDescription: "Get found by the right people.", Description: "Technical SEO, content and paid campaigns.", Published: true},
		{Title: "UI/UX Design", ShortDescription: "Interfaces people enjoy.", Description: "Research, wireframes and design systems.", Published: true},
		{Title: "E-handel", ShortDescription: "Webshops som säljer.", Description: "Butiker på Shopify, WooCommerce och headless.", Published: false},
	}

	now := time.Now().In(cfg.Timezone)
	for _, svc := range services {
		slug := utils.Slugify(svc.Title)
		doc := bson.M{
			"_id":               primitive.NewObjectID().Hex(),
			"title":             svc.Title,
			"slug":              slug,
			"short_description": svc.ShortDescription,
			"description":       svc.Description,
			"metaDescription":   svc.ShortDescription,
			"detail":            svc.Description,
			"published":         svc.Published,
			"createdAt":         now,
			"updatedAt":         now,
		}
		if err := insertIfMissing(ctx, cols.Services, bson.M{"slug": slug}, doc); err != nil {
			log.Fatalf("seed service %s: %v", svc.Title, err)
		}
	}

	faqs := [][2]string{
		{"How long does a website project take?", "Most projects launch within four to eight weeks."},
		{"Do you offer support after launch?", "Yes, every project includes three months of support."},
	}
	for _, f := range faqs {
		doc := bson.M{
			"_id":       primitive.NewObjectID().Hex(),
			"question":  f[0],
			"answer":    f[1],
			"createdAt": now,
			"updatedAt": now,
		}
		if err := insertIfMissing(ctx, cols.FAQs, bson.M{"question": f[0]}, doc); err != nil {
			log.Fatalf("seed faq: %v", err)
		}
	}

	portfolio := []bson.M{
		{"title": "Nordic Coffee Webshop", "description": "Headless shop with subscriptions.", "url": "https://example.com/coffee", "published": true},
		{"title": "Fastighetsportal", "description": "Listing portal for a Stockholm agency.", "url": "https://example.com/fastighet", "published": false},
	}
	for _, p := range portfolio {
		p["_id"] = primitive.NewObjectID().Hex()
		p["files"] = []string{}
		p["createdAt"] = now
		p["updatedAt"] = now
		if err := insertIfMissing(ctx, cols.Portfolios, bson.M{"title": p["title"]}, p); err != nil {
			log.Fatalf("seed portfolio %v: %v", p["title"], err)
		}
	}

	accounts := []seedUser{
		{
			Name:        envOrDefault("ADMIN_NAME", "Admin"),
			Email:       envOrDefault("ADMIN_EMAIL", "admin@digitalaura.se"),
			Role:        users.RoleAdmin,
			PasswordEnv: "ADMIN_PASSWORD",
		},
		{
			Name:        envOrDefault("EDITOR_NAME", "Editor"),
			Email:       envOrDefault("EDITOR_EMAIL", ""),
			Role:        users.RoleEditor,
			PasswordEnv: "EDITOR_PASSWORD",
		},
	}

	userService := users.NewService(users.NewRepository(cols.Users), nil, cfg.Timezone)
	for _, acc := range accounts {
		password := os.Getenv(acc.PasswordEnv)
		if acc.Email == "" || password == "" {
			log.Printf("seed user: %s missing email or %s, skipping", acc.Role, acc.PasswordEnv)
			continue
		}
		if _, err := userService.Ensure(ctx, acc.Name, acc.Email, password, acc.Role); err != nil {
			log.Fatalf("seed user %s: %v", acc.Email, err)
		}
	}

	log.Println("seed completed")
}

// insertIfMissing upserts with $setOnInsert so reruns never overwrite edits.
func insertIfMissing(ctx context.Context, col *mongo.Collection, filter, doc bson.M) error {
	_, err := col.UpdateOne(ctx, filter, bson.M{"$setOnInsert": doc}, options.Update().SetUpsert(true))
	return err
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
