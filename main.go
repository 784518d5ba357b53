package main

import "github.com/EO-DataHub/eodhp-directory-admin/cmd"

func main() {
	cmd.Execute()
}
