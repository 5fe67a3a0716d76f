package adcomponents

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aerodata/go-aerodata/internal/sharedtest"
	st "github.com/aerodata/go-aerodata/subsystems/adstoretypes"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileDataStoreBuilder(t *testing.T) {
	t.Run("Build", func(t *testing.T) {
		sharedtest.WithTempDir(func(dir string) {
			path := filepath.Join(dir, "features.geojson")
			store, err := FileDataStore(path).Build(basicClientContext())
			require.NoError(t, err)
			require.NotNil(t, store)
			defer store.Close()

			assert.False(t, store.IsInitialized())

			require.NoError(t, store.Init([]st.SerializedCollection{}))
			assert.True(t, store.IsInitialized())

			_, err = os.Stat(path)
			assert.NoError(t, err)
		})
	})

	t.Run("Path", func(t *testing.T) {
		b := FileDataStore("a").Path("b")
		assert.Equal(t, "b", b.path)
	})
}
