// Command gallery runs the image gallery API and frontend.
//
// @title                       Image Gallery API
// @version                     1.0
// @description                 Upload, browse and rename images.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
