// Command convo-db creates or upgrades the database and optionally loads sample data.
package main

import (
	"encoding/json"
	"flag"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/echowaves/chat/server/logs"
	"github.com/echowaves/chat/server/store"
	jcr "github.com/tinode/jsonco"
)

type configType struct {
	StoreConfig json.RawMessage `json:"store_config"`
}

func readConfig(r io.Reader) (*configType, error) {
	var config configType
	jr := jcr.New(r)
	if err := json.NewDecoder(jr).Decode(&config); err != nil {
		switch jerr := err.(type) {
		case *json.UnmarshalTypeError:
			lnum, cnum, _ := jr.LineAndChar(jerr.Offset)
			logs.Err.Printf("Unmarshall error in config file in %s at %d:%d (offset %d bytes): %s",
				jerr.Field, lnum, cnum, jerr.Offset, jerr.Error())
		case *json.SyntaxError:
			lnum, cnum, _ := jr.LineAndChar(jerr.Offset)
			logs.Err.Printf("Syntax error in config file at %d:%d (offset %d bytes): %s",
				lnum, cnum, jerr.Offset, jerr.Error())
		}
		return nil, err
	}
	return &config, nil
}

func main() {
	var reset = flag.Bool("reset", false, "force database reset")
	var upgrade = flag.Bool("upgrade", false, "perform database version upgrade")
	var noInit = flag.Bool("no_init", false, "check that database exists but don't create if missing")
	var datafile = flag.String("data", "", "name of file with sample data to load")
	var conffile = flag.String("config", "./convo.conf", "config of the database connection")

	flag.Parse()

	logs.Init(os.Stderr, "stdFlags")

	var data *Data
	if *datafile != "" && *datafile != "-" {
		file, err := os.Open(*datafile)
		if err != nil {
			logs.Err.Fatalln("Failed to read sample data file:", err)
		}
		data, err = parseData(file)
		file.Close()
		if err != nil {
			logs.Err.Fatalln("Failed to parse sample data:", err)
		}
	}

	file, err := os.Open(*conffile)
	if err != nil {
		logs.Err.Fatalln("Failed to read config file:", err)
	}
	config, err := readConfig(file)
	file.Close()
	if err != nil {
		logs.Err.Fatalln("Failed to parse config file:", err)
	}

	err = store.Store.Open(1, config.StoreConfig)
	defer store.Store.Close()

	logs.Info.Println("Database adapter:", store.Store.GetAdapterName(), store.Store.GetAdapterVersion())

	if err != nil {
		if strings.Contains(err.Error(), "Database not initialized") {
			if *noInit {
				logs.Err.Fatalln("Database not found.")
			}
			logs.Info.Println("Database not found. Creating.")
		} else if strings.Contains(err.Error(), "Invalid database version") {
			msg := "Wrong DB version: expected " + strconv.Itoa(store.Store.GetAdapterVersion()) + ", got " +
				strconv.Itoa(store.Store.GetDbVersion()) + "."
			if *reset {
				logs.Info.Println(msg, "Dropping and recreating the database.")
			} else if *upgrade {
				logs.Info.Println(msg, "Upgrading the database.")
			} else {
				logs.Err.Fatalln(msg, "Use --reset to reset, --upgrade to upgrade.")
			}
		} else {
			logs.Info.Println("Failed to init DB adapter:", err, "; will try to create the database.")
		}
	} else if *reset {
		logs.Info.Println("Database reset requested")
	} else if *upgrade {
		logs.Info.Println("Database exists, DB version is correct. Nothing to upgrade.")
		return
	} else {
		logs.Info.Println("Database exists, DB version is correct.")
		if data != nil {
			genDb(data)
		}
		return
	}

	if *upgrade {
		// Upgrade DB from one version to another.
		err = store.Store.UpgradeDb(config.StoreConfig)
		if err == nil {
			logs.Info.Println("Database successfully upgraded.")
		}
	} else {
		// Reset or create DB
		err = store.Store.InitDb(config.StoreConfig, *reset)
		if err == nil {
			var action string
			if *reset {
				action = "reset"
			} else {
				action = "initialized"
			}
			logs.Info.Println("Database", action)
		}
	}

	if err != nil {
		logs.Err.Fatalln("Failed to init DB:", err)
	}

	if data == nil {
		return
	}
	if *upgrade {
		logs.Info.Println("Sample data ignored. All done.")
		return
	}
	genDb(data)
}
