package bdd

import (
	"testing"

	"github.com/andrescamacho/processor-go/test/bdd/steps"
	"github.com/cucumber/godog"
)

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/domain", "features/application"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func InitializeScenario(sc *godog.ScenarioContext) {
	// NOTE: ProcessorScenario registered FIRST so its definition steps take precedence
	// over the ticker steps that share the same wording
	steps.InitializeProcessorScenario(sc)
	steps.InitializeTickerScenario(sc)
}
