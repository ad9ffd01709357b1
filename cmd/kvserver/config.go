package main

import (
	"os"

	"github.com/nicolagi/kvgate/storage"
	"github.com/rogpeppe/rjson"
)

type config struct {
	Address string         `json:"address"`
	Debug   bool           `json:"debug"`
	Store   storage.Config `json:"store"`
}

func loadConfig(pathname string) (*config, error) {
	f, err := os.Open(pathname)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	var c config
	if err := rjson.NewDecoder(f).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *config) applyDefaultsForMissingProperties() {
	if c.Address == "" {
		c.Address = ":8080"
	}
	if c.Store.Type == "" {
		c.Store.Type = "bolt"
	}
	if c.Store.Path == "" {
		switch c.Store.Type {
		case "bolt":
			c.Store.Path = "$HOME/lib/kvgate/data.db"
		case "sqlite":
			c.Store.Path = "$HOME/lib/kvgate/data.sqlite"
		}
	}
	c.Store.Path = os.ExpandEnv(c.Store.Path)
}
