package main

import (
	"log"

	"plangains-backend/db"
	"plangains-backend/handlers/stripe"
	"plangains-backend/routes"
	"plangains-backend/utils"

	"github.com/gin-gonic/gin"
)

// @title API Plangains Backend
// @version 1.0
// @description API for the Plangains coaching platform
// @host localhost:8080
// @BasePath /
// @SecurityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter the JWT with the Bearer prefix: Bearer <JWT>
func main() {

	gin.SetMode(gin.ReleaseMode)
	gin.DefaultWriter = utils.LogWriter()

	// Initialise la base de données
	db.InitDB()

	// Initialise la passerelle Stripe
	gateway, err := stripe.NewGatewayFromEnv()
	if err != nil {
		utils.LogError(err, "Stripe gateway not configured")
		log.Println("Paid subscriptions and payouts will fail until STRIPE_SECRET_KEY is set.")
	}

	r := routes.SetupRouter(stripe.NewHandler(gateway))

	if err := r.Run(":8080"); err != nil {
		log.Fatal("Error starting the server:", err)
	}
}
