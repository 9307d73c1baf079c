package main

import (
	"context"

	"github.com/shandysiswandi/glintai/internal/app"
)

// @title           Glintai API
// @version         1.0
// @description     Glintai provides a two-step sign-in flow: credentials, one-time code verification and a live event stream.
// @termsOfService  https://glintai.com/terms
// @contact.name    Contact Support
// @contact.url     https://glintai.com/contact
// @contact.email   support@glintai.com
// @license.name    MIT
// @license.url     https://mit-license.org/
// @server          http://localhost:8080
// @server          https://localhost:8080
// @securityDefinitions.apikey  BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT.
func main() {
	application := app.New()
	<-application.Start()

	ctx, cancel := context.WithTimeout(context.Background(), application.ShutdownTimeout())
	defer cancel()

	application.Stop(ctx)
}
