package neo4j

import (
	"fmt"

	neo4jlog "github.com/neo4j/neo4j-go-driver/v5/neo4j/log"
	"github.com/yaoapp/kun/log"
)

// driverLogger forwards the driver log to kun/log
type driverLogger struct{}

func newDriverLogger() neo4jlog.Logger {
	return driverLogger{}
}

func (driverLogger) Error(name, id string, err error) {
	log.With(driverFields(name, id)).Error("neo4j driver: %s", err.Error())
}

func (driverLogger) Warnf(name, id string, msg string, args ...any) {
	log.With(driverFields(name, id)).Warn("neo4j driver: %s", fmt.Sprintf(msg, args...))
}

func (driverLogger) Infof(name, id string, msg string, args ...any) {
	log.With(driverFields(name, id)).Info("neo4j driver: %s", fmt.Sprintf(msg, args...))
}

func (driverLogger) Debugf(name, id string, msg string, args ...any) {
	log.With(driverFields(name, id)).Debug("neo4j driver: %s", fmt.Sprintf(msg, args...))
}

func driverFields(name, id string) log.F {
	return log.F{"component": name, "connection": id}
}
