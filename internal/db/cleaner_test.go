package db

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestStartExpiredEntryCleaner_Success(t *testing.T) {
	dbMock, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	defer dbMock.Close()

	mock.ExpectExec("DELETE FROM clipboard_entries").
		WillReturnResult(sqlmock.NewResult(0, 3))

	logger := zap.NewNop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	StartExpiredEntryCleaner(ctx, dbMock, 10*time.Millisecond, logger)

	time.Sleep(200 * time.Millisecond)
	cancel()

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStartExpiredEntryCleaner_ErrorLogged(t *testing.T) {
	dbMock, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	defer dbMock.Close()

	mock.ExpectExec("DELETE FROM clipboard_entries").
		WillReturnError(fmt.Errorf("db fail"))

	var buf bytes.Buffer
	encCfg := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(&buf),
		zapcore.ErrorLevel,
	)
	logger := zap.New(core)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	StartExpiredEntryCleaner(ctx, dbMock, 10*time.Millisecond, logger)

	time.Sleep(200 * time.Millisecond)
	cancel()

	if !strings.Contains(buf.String(), "failed to clean expired clipboard entries") {
		t.Errorf("expected cleaner error to be logged, got: %s", buf.String())
	}
}
