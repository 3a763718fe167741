package main

import (
	"fmt"

	"musaetermo/internal/store"

	"github.com/k0kubun/pp/v3"
	"github.com/urfave/cli/v2"
)

var recordsCommand = &cli.Command{
	Name:  "records",
	Usage: "Dump the metadata log of stored terms",
	Action: func(cCtx *cli.Context) error {
		config, err := loadConfig()
		if err != nil {
			return err
		}

		archive, err := store.New(config.StorageDir)
		if err != nil {
			return err
		}

		records, err := archive.Records()
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("nenhum registro")
			return nil
		}

		pp.Println(records)
		return nil
	},
}
