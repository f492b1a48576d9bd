package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mattsolo1/notekeep/pkg/notebook"
	"github.com/mattsolo1/notekeep/pkg/search"
	"github.com/mattsolo1/notekeep/pkg/service"
	"github.com/mattsolo1/notekeep/pkg/storage"
)

var (
	cfgFile string

	// activeDir caches the active notebook's data directory for the
	// lifetime of one command invocation.
	activeDir string
)

// InitConfig wires viper: config file under ~/.config/nk, NK_ env prefix,
// and defaults for the data directory.
func InitConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		configDir := filepath.Join(home, ".config", "nk")
		viper.AddConfigPath(configDir)
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("NK")

	viper.SetDefault("data_dir", filepath.Join(os.Getenv("HOME"), ".local", "share", "nk"))
	viper.SetDefault("search_index", true)

	_ = viper.ReadInConfig()
}

// AddGlobalFlags registers the persistent flags every command shares
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/nk/config.yaml)")
}

// BaseDir returns the configured base data directory. The notebook
// registry lives here, as does the default notebook's document.
func BaseDir() string {
	return viper.GetString("data_dir")
}

// OpenRegistry opens the notebook registry under the base directory
func OpenRegistry() (*notebook.Registry, error) {
	return notebook.NewRegistry(BaseDir())
}

// DataDir returns the active notebook's data directory. When the registry
// cannot be consulted the base directory is used, which is also where the
// default notebook keeps its document.
func DataDir() string {
	if activeDir != "" {
		return activeDir
	}

	dir := BaseDir()
	reg, err := OpenRegistry()
	if err == nil {
		if active, aerr := reg.Active(); aerr == nil {
			dir = active.DataDir
		}
		_ = reg.Close()
	}
	activeDir = dir
	return dir
}

// NewLogger builds the shared logger: warnings and up, to stderr
func NewLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.WarnLevel)
	return log
}

// OpenSession rehydrates a session from the notes document in the data
// directory and restores the persisted cursor and focus. The returned
// close function releases the search index.
func OpenSession() (*service.Session, func(), error) {
	dataDir := DataDir()
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, nil, err
	}

	log := NewLogger()
	docs := storage.NewDocumentStore(filepath.Join(dataDir, "notes.json"), log)

	opts := []service.Option{service.WithLogger(log)}
	var idx *search.Index
	if viper.GetBool("search_index") {
		var err error
		idx, err = search.NewIndex(filepath.Join(dataDir, "index.db"))
		if err != nil {
			// The index is derived data; run without it rather than fail.
			log.WithError(err).Warn("could not open search index")
		} else {
			opts = append(opts, service.WithIndex(idx))
		}
	}

	sess := service.NewSession(docs, opts...)

	st := LoadState()
	if st.CurrentFolderID != nil {
		sess.Navigate(st.CurrentFolderID)
	}
	if st.FocusedID != "" {
		_, _ = sess.OpenNote(st.FocusedID)
	}

	closeFn := func() {
		if idx != nil {
			_ = idx.Close()
		}
	}
	return sess, closeFn, nil
}

// State is the durable slice of session state a CLI needs between
// invocations: where the cursor is and which note was focused.
type State struct {
	CurrentFolderID *string `json:"currentFolderId"`
	FocusedID       string  `json:"focusedId,omitempty"`
}

func statePath() string {
	return filepath.Join(DataDir(), "state.json")
}

// LoadState reads the persisted cursor; a missing or damaged state file
// just means starting at root.
func LoadState() State {
	var st State
	raw, err := os.ReadFile(statePath())
	if err != nil {
		return st
	}
	if err := json.Unmarshal(raw, &st); err != nil {
		return State{}
	}
	return st
}

// SaveState persists the cursor and focus from the session, best-effort
func SaveState(sess *service.Session) {
	st := State{CurrentFolderID: sess.CurrentFolderID()}
	if it, ok := sess.Focused(); ok {
		st.FocusedID = it.ID
	}
	raw, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return
	}
	_ = os.WriteFile(statePath(), raw, 0644)
}
