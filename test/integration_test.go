package test

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"
)

// guildcraftBinary is the path to the compiled binary, set by TestMain.
var guildcraftBinary string

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(0)
	}

	tmpDir, err := os.MkdirTemp("", "guildcraft-integration-build-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "create temp dir: %v\n", err)
		os.Exit(1)
	}
	defer os.RemoveAll(tmpDir)

	guildcraftBinary = filepath.Join(tmpDir, "guildcraft")
	cmd := exec.Command("go", "build", "-o", guildcraftBinary, "./cmd/guildcraft")
	// Test working dir is test/, so go up one level to project root
	cmd.Dir = filepath.Join("..")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "build guildcraft binary: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

const schema = `
CREATE TABLE plants (
	wfo_id TEXT PRIMARY KEY,
	scientific_name TEXT NOT NULL,
	family TEXT NOT NULL,
	genus TEXT NOT NULL,
	height_m REAL,
	growth_form TEXT,
	csr_c REAL, csr_s REAL, csr_r REAL,
	light_pref REAL,
	soil_ph REAL,
	tier_1_tropical INTEGER NOT NULL DEFAULT 0,
	tier_2_mediterranean INTEGER NOT NULL DEFAULT 0,
	tier_3_humid_temperate INTEGER NOT NULL DEFAULT 0,
	tier_4_continental INTEGER NOT NULL DEFAULT 0,
	tier_5_boreal_polar INTEGER NOT NULL DEFAULT 0,
	tier_6_arid INTEGER NOT NULL DEFAULT 0,
	tree_tip TEXT
);
CREATE TABLE organism_profiles (
	plant_wfo_id TEXT PRIMARY KEY,
	herbivores TEXT, herbivores_count INTEGER NOT NULL DEFAULT 0,
	pollinators TEXT, pollinators_count INTEGER NOT NULL DEFAULT 0,
	flower_visitors TEXT, flower_visitors_count INTEGER NOT NULL DEFAULT 0,
	predators_direct_host TEXT, predators_direct_host_count INTEGER NOT NULL DEFAULT 0,
	predators_general TEXT, predators_general_count INTEGER NOT NULL DEFAULT 0,
	predators_spatial TEXT, predators_spatial_count INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE fungal_profiles (
	plant_wfo_id TEXT PRIMARY KEY,
	pathogenic_fungi TEXT, pathogenic_fungi_count INTEGER NOT NULL DEFAULT 0,
	pathogenic_fungi_host_specific TEXT, pathogenic_fungi_host_specific_count INTEGER NOT NULL DEFAULT 0,
	amf_fungi TEXT, amf_fungi_count INTEGER NOT NULL DEFAULT 0,
	emf_fungi TEXT, emf_fungi_count INTEGER NOT NULL DEFAULT 0,
	mycoparasite_fungi TEXT, mycoparasite_fungi_count INTEGER NOT NULL DEFAULT 0,
	entomopathogenic_fungi TEXT, entomopathogenic_fungi_count INTEGER NOT NULL DEFAULT 0,
	endophytic_fungi TEXT, endophytic_fungi_count INTEGER NOT NULL DEFAULT 0,
	saprotrophic_fungi TEXT, saprotrophic_fungi_count INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE herbivore_predators (herbivore TEXT PRIMARY KEY, predators TEXT);
CREATE TABLE insect_fungal_parasites (herbivore TEXT PRIMARY KEY, entomopathogenic_fungi TEXT);
CREATE TABLE pathogen_antagonists (pathogen TEXT PRIMARY KEY, antagonists TEXT);
`

// setupDataDir builds a reference database, phylogenetic tree, and
// config file under a temp dir and returns the data dir plus the
// subprocess environment pointing at them.
func setupDataDir(t *testing.T) (string, []string) {
	t.Helper()
	tmp := t.TempDir()
	dataDir := filepath.Join(tmp, "data")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		t.Fatal(err)
	}

	dbPath := filepath.Join(dataDir, "reference.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	// Six humid-temperate herbs with full traits so pair calibration
	// has a workable pool.
	for i := 0; i < 6; i++ {
		id := fmt.Sprintf("wfo-000000000%d", i)
		tip := fmt.Sprintf("Tip_%d", i)
		_, err := db.Exec(`INSERT INTO plants (wfo_id, scientific_name, family, genus,
			height_m, growth_form, csr_c, csr_s, csr_r, light_pref, soil_ph,
			tier_3_humid_temperate, tree_tip)
			VALUES (?, ?, 'Asteraceae', 'Testus', ?, 'herb', ?, 30, 20, 6.5, 6.2, 1, ?)`,
			id, fmt.Sprintf("Testus species%d", i), 0.5+float64(i), float64(10*i), tip)
		if err != nil {
			t.Fatal(err)
		}
		_, err = db.Exec(`INSERT INTO organism_profiles (plant_wfo_id, pollinators, pollinators_count)
			VALUES (?, '["Apis mellifera","Bombus terrestris"]', 2)`, id)
		if err != nil {
			t.Fatal(err)
		}
	}

	tree := "(((((Tip_0:1,Tip_1:2):3,Tip_2:4):5,Tip_3:6):7,Tip_4:8):9,Tip_5:10);"
	if err := os.WriteFile(filepath.Join(dataDir, "guild_tree.nwk"), []byte(tree+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfgDir := filepath.Join(tmp, "xdg", "guildcraft")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	cfg := fmt.Sprintf(`[data]
database_path = %q
tree_path = %q

[calibration]
path = %q
type = "pair"
tier = "humid_temperate"

[sampler]
samples = 30
seed = 42
compress = true
`,
		dbPath,
		filepath.Join(dataDir, "guild_tree.nwk"),
		filepath.Join(dataDir, "calibration_pair.json.zst"))
	if err := os.WriteFile(filepath.Join(cfgDir, "config.toml"), []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	env := append(os.Environ(),
		"XDG_CONFIG_HOME="+filepath.Join(tmp, "xdg"),
		"HOME="+tmp)
	return dataDir, env
}

func run(t *testing.T, env []string, args ...string) (string, string, error) {
	t.Helper()
	cmd := exec.Command(guildcraftBinary, args...)
	cmd.Env = env
	var out, errb strings.Builder
	cmd.Stdout = &out
	cmd.Stderr = &errb
	err := cmd.Run()
	return out.String(), errb.String(), err
}

func TestCalibrateAndScore(t *testing.T) {
	dataDir, env := setupDataDir(t)

	stdout, stderr, err := run(t, env, "calibrate")
	if err != nil {
		t.Fatalf("calibrate failed: %v\nstderr: %s", err, stderr)
	}
	if !strings.Contains(stdout, "calibrated 1 tiers") {
		t.Fatalf("calibrate output: %q", stdout)
	}
	calPath := filepath.Join(dataDir, "calibration_pair.json.zst")
	if _, err := os.Stat(calPath); err != nil {
		t.Fatalf("calibration file missing: %v", err)
	}

	stdout, stderr, err = run(t, env, "score", "wfo-0000000000", "wfo-0000000001")
	if err != nil {
		t.Fatalf("score failed: %v\nstderr: %s", err, stderr)
	}
	for _, want := range []string{
		"overall:",
		"pest_independence",
		"pollinator_support",
		"shared tiers: tier_3_humid_temperate",
	} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("score output missing %q:\n%s", want, stdout)
		}
	}
}

func TestScoreUnknownPlant(t *testing.T) {
	_, env := setupDataDir(t)

	if _, stderr, err := run(t, env, "calibrate"); err != nil {
		t.Fatalf("calibrate failed: %v\nstderr: %s", err, stderr)
	}

	_, stderr, err := run(t, env, "score", "wfo-0000000000", "wfo-9999999999")
	if err == nil {
		t.Fatal("expected non-zero exit for unknown plant")
	}
	if !strings.Contains(stderr, "unknown plant IDs") {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestVersion(t *testing.T) {
	stdout, _, err := run(t, os.Environ(), "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, "guildcraft v") {
		t.Fatalf("version output: %q", stdout)
	}
}
