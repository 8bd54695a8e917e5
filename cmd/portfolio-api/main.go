// @title        Portfolio Backend API
// @version      1.0
// @description  Authentication, authorization and account management.
// @BasePath     /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import "github.com/portfolio/backend/cmd/portfolio-api/cmd"

func main() {
	cmd.Execute()
}
