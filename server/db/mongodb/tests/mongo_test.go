//go:build mongodb
// +build mongodb

// Integration tests of the MongoDB adapter. They run against a live server described by
// the config file:
//
//	go test -tags mongodb ./server/db/mongodb/tests -config=./test.conf
//
// where test.conf is
//
//	{"reset_db_data": true, "adapters": {"mongodb": { "addresses": "localhost:27017", "database": "convo_test" }}}
//
// Without the config file the tests are skipped.

package tests

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"testing"

	jcr "github.com/tinode/jsonco"

	adapter "github.com/echowaves/chat/server/db"
	"github.com/echowaves/chat/server/db/common/test_data"
	"github.com/echowaves/chat/server/db/common/testsuite"
	backend "github.com/echowaves/chat/server/db/mongodb"
	"github.com/echowaves/chat/server/logs"
	"github.com/echowaves/chat/server/store"
)

type configType struct {
	// If Reset=true test will recreate database every time it runs
	Reset bool `json:"reset_db_data"`
	// Configurations for individual adapters.
	Adapters map[string]json.RawMessage `json:"adapters"`
}

var config configType
var adp adapter.Adapter
var testData *test_data.TestData

var conffile = flag.String("config", "./test.conf", "config of the database connection")

func TestCreateDb(t *testing.T) {
	if err := adp.CreateDb(config.Reset); err != nil {
		t.Fatal(err)
	}
}

// ================== Create tests ================================
func TestUserCreate(t *testing.T) {
	testsuite.RunUserCreate(t, adp, testData)
}

func TestConvCreate(t *testing.T) {
	testsuite.RunConvCreate(t, adp, testData)
}

func TestSubsCreate(t *testing.T) {
	testsuite.RunSubsCreate(t, adp, testData)
}

func TestInviteCreate(t *testing.T) {
	testsuite.RunInviteCreate(t, adp, testData)
}

func TestMessageSave(t *testing.T) {
	testsuite.RunMessageSave(t, adp, testData)
}

func TestAbuseReportCreate(t *testing.T) {
	testsuite.RunAbuseReportCreate(t, adp, testData)
}

func TestAbuseReportCreateConcurrent(t *testing.T) {
	testsuite.RunAbuseReportCreateConcurrent(t, adp, testData)
}

// ================== Read tests ==================================
func TestUserGet(t *testing.T) {
	testsuite.RunUserGet(t, adp, testData)
}

func TestSubsForUser(t *testing.T) {
	testsuite.RunSubsForUser(t, adp, testData)
}

func TestSubsUnread(t *testing.T) {
	// Two messages posted after the last read.
	testsuite.RunSubsUnread(t, adp, testData, 2)
}

// ================== Update tests ================================
func TestConvTags(t *testing.T) {
	testsuite.RunConvTags(t, adp, testData)
}

func TestConvVisits(t *testing.T) {
	testsuite.RunConvVisits(t, adp, testData)
}

func TestInviteConsume(t *testing.T) {
	testsuite.RunInviteConsume(t, adp, testData)
}

func TestInviteRestore(t *testing.T) {
	testsuite.RunInviteRestore(t, adp, testData)
}

func TestInviteConsumeConcurrent(t *testing.T) {
	testsuite.RunInviteConsumeConcurrent(t, adp, testData)
}

func TestMessageDeactivate(t *testing.T) {
	testsuite.RunMessageDeactivate(t, adp, testData)
}

func TestSubsUnreadAfterDeactivate(t *testing.T) {
	// Deactivated message is no longer counted.
	testsuite.RunSubsUnread(t, adp, testData, 1)
}

func TestMain(m *testing.M) {
	flag.Parse()
	logs.Init(os.Stderr, "stdFlags")

	file, err := os.Open(*conffile)
	if err != nil {
		log.Println("Skipping MongoDB integration tests:", err)
		os.Exit(0)
	}
	err = json.NewDecoder(jcr.New(file)).Decode(&config)
	file.Close()
	if err != nil {
		log.Fatal("Failed to parse config file:", err)
	}

	adp = backend.GetTestAdapter()
	if err = adp.Open(config.Adapters[adp.GetName()]); err != nil {
		log.Fatal(err)
	}

	testData = test_data.InitTestData()
	if testData == nil {
		log.Fatal("Failed to initialize test data")
	}
	store.SetTestUidGenerator(*testData.UGen)

	code := m.Run()
	adp.Close()
	os.Exit(code)
}
