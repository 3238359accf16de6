package query_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/okian/babynames/internal/domain/archive"
	"github.com/okian/babynames/internal/domain/archive/archivetest"
	"github.com/okian/babynames/internal/domain/model"
	"github.com/okian/babynames/internal/domain/normalize"
)

func loadTable(t *testing.T, data []byte) *model.Table {
	t.Helper()
	res, err := archive.Parse(data)
	require.NoError(t, err)
	normalize.Apply(res.Records)
	return model.NewTable(res.Records, model.WithDigest(7))
}

func scenarioTable(t *testing.T) *model.Table { return loadTable(t, archivetest.Scenario()) }

func sampleTable(t *testing.T) *model.Table { return loadTable(t, archivetest.Sample()) }
