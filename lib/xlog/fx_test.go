package xlog

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap/zapcore"
)

func TestFxXLoggerAllCases(t *testing.T) {
	testcases := []struct {
		name     string
		event    fxevent.Event
		contains string
	}{
		{
			"onStartExecuting",
			&fxevent.OnStartExecuting{
				FunctionName: "testFunc1",
				CallerName:   "testCaller1",
			},
			"HOOK OnStart",
		},
		{
			"onStartExecuted_err",
			&fxevent.OnStartExecuted{
				FunctionName: "testFunc2",
				CallerName:   "testCaller2",
				Runtime:      11,
				Err:          errors.New("fx error 1"),
			},
			"fx error 1",
		},
		{
			"onStopExecuted_succ",
			&fxevent.OnStopExecuted{
				FunctionName: "testFunc3",
				CallerName:   "testCaller3",
				Runtime:      12,
			},
			"HOOK OnStop successfully",
		},
		{
			"supplied_err",
			&fxevent.Supplied{
				TypeName:   "testType1",
				Err:        errors.New("fx error 3"),
				StackTrace: []string{"testStack1"},
			},
			"SUPPLY ERROR",
		},
		{
			"provided",
			&fxevent.Provided{
				ConstructorName: "testConstructor1",
				OutputTypeNames: []string{"testType2"},
				ModuleName:      "testModule1",
			},
			"testConstructor1",
		},
		{
			"invoking",
			&fxevent.Invoking{
				FunctionName: "testFunc4",
			},
			"INVOKING",
		},
		{
			"stopping",
			&fxevent.Stopping{
				Signal: os.Interrupt,
			},
			"STOPPING",
		},
		{
			"rollingBack",
			&fxevent.RollingBack{
				StartErr: errors.New("fx error 4"),
			},
			"rolling back",
		},
		{
			"started",
			&fxevent.Started{},
			"RUNNING",
		},
		{
			"loggerInitialized",
			&fxevent.LoggerInitialized{
				ConstructorName: "testConstructor2",
			},
			"testConstructor2",
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := NewFxXLogger(NewXLogger(
				WithXLoggerLevel(LogLevelDebug),
				WithXLoggerEncoder(JSON),
				WithXLoggerOutput(buf),
				WithXLoggerTimeEncoder(zapcore.ISO8601TimeEncoder),
				WithXLoggerLevelEncoder(zapcore.CapitalLevelEncoder),
			))
			logger.LogEvent(tc.event)
			require.NoError(t, logger.logger.Sync())
			require.Contains(t, buf.String(), tc.contains)
			require.Contains(t, buf.String(), `"component":"Fx"`)
		})
	}
}

func TestFxXLogger_ParentLogLevelChanged(t *testing.T) {
	var logger *FxXLogger
	logger.LogEvent(&fxevent.LoggerInitialized{
		ConstructorName: "testConstructor4",
	})

	buf := &bytes.Buffer{}
	parentLogger := NewXLogger(
		WithXLoggerLevel(LogLevelDebug),
		WithXLoggerOutput(buf),
	)
	logger = NewFxXLogger(parentLogger)
	parentLogger.IncreaseLogLevel(zapcore.InfoLevel)
	logger.LogEvent(&fxevent.LoggerInitialized{
		ConstructorName: "testConstructor4",
	})
	require.Zero(t, buf.Len())

	parentLogger.IncreaseLogLevel(zapcore.DebugLevel)
	logger.LogEvent(&fxevent.LoggerInitialized{
		ConstructorName: "testConstructor5",
	})
	require.Contains(t, buf.String(), "testConstructor5")
}
