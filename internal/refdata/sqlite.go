package refdata

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"

	_ "modernc.org/sqlite"

	"github.com/johns/guildcraft/internal/climate"
)

// Load opens the reference SQLite database at path and reads all four
// datasets into an immutable snapshot. The file layout is the one the
// ingestion pipeline produces: array-valued columns are JSON text arrays
// with a parallel <col>_count column that must match the array length.
func Load(path string) (*Dataset, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open reference db: %w", err)
	}
	defer db.Close()

	d := &Dataset{
		plants:    make(map[string]Plant),
		organisms: make(map[string]OrganismProfile),
		fungi:     make(map[string]FungalProfile),
		lookup: Biocontrol{
			HerbivorePredators:  make(map[string]Set),
			HerbivoreEntomopath: make(map[string]Set),
			PathogenAntagonists: make(map[string]Set),
		},
	}

	if err := loadPlants(db, d); err != nil {
		return nil, err
	}
	if err := loadOrganisms(db, d); err != nil {
		return nil, err
	}
	if err := loadFungi(db, d); err != nil {
		return nil, err
	}
	if err := loadLookups(db, d); err != nil {
		return nil, err
	}

	d.ids = make([]string, 0, len(d.plants))
	for id := range d.plants {
		d.ids = append(d.ids, id)
	}
	sort.Strings(d.ids)

	return d, nil
}

func loadPlants(db *sql.DB, d *Dataset) error {
	rows, err := db.Query(`
		SELECT wfo_id, scientific_name, family, genus,
		       height_m, growth_form,
		       csr_c, csr_s, csr_r,
		       light_pref, soil_ph,
		       tier_1_tropical, tier_2_mediterranean, tier_3_humid_temperate,
		       tier_4_continental, tier_5_boreal_polar, tier_6_arid,
		       tree_tip
		FROM plants`)
	if err != nil {
		return fmt.Errorf("query plants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			p          Plant
			height     sql.NullFloat64
			growthForm sql.NullString
			c, s, r    sql.NullFloat64
			light, ph  sql.NullFloat64
			tiers      [6]bool
			treeTip    sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.ScientificName, &p.Family, &p.Genus,
			&height, &growthForm, &c, &s, &r, &light, &ph,
			&tiers[0], &tiers[1], &tiers[2], &tiers[3], &tiers[4], &tiers[5],
			&treeTip); err != nil {
			return fmt.Errorf("scan plant: %w", err)
		}

		if height.Valid {
			p.HeightM = &height.Float64
		}
		p.GrowthForm = growthForm.String
		if c.Valid && s.Valid && r.Valid {
			p.CSR = &CSR{C: c.Float64, S: s.Float64, R: r.Float64}
		}
		if light.Valid {
			p.LightPref = &light.Float64
		}
		if ph.Valid {
			p.SoilPH = &ph.Float64
		}
		for i, member := range tiers {
			if member {
				p.Tiers = p.Tiers.With(climate.Tier(i))
			}
		}
		p.TreeTip = treeTip.String

		d.plants[p.ID] = p
	}
	return rows.Err()
}

func loadOrganisms(db *sql.DB, d *Dataset) error {
	rows, err := db.Query(`
		SELECT plant_wfo_id,
		       herbivores, herbivores_count,
		       pollinators, pollinators_count,
		       flower_visitors, flower_visitors_count,
		       predators_direct_host, predators_direct_host_count,
		       predators_general, predators_general_count,
		       predators_spatial, predators_spatial_count
		FROM organism_profiles`)
	if err != nil {
		return fmt.Errorf("query organism_profiles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id     string
			raw    [6]sql.NullString
			counts [6]int
		)
		if err := rows.Scan(&id,
			&raw[0], &counts[0], &raw[1], &counts[1], &raw[2], &counts[2],
			&raw[3], &counts[3], &raw[4], &counts[4], &raw[5], &counts[5]); err != nil {
			return fmt.Errorf("scan organism profile: %w", err)
		}

		cols := [6]string{
			"herbivores", "pollinators", "flower_visitors",
			"predators_direct_host", "predators_general", "predators_spatial",
		}
		var sets [6]Set
		for i := range raw {
			set, err := decodeArray(raw[i], counts[i], id, cols[i])
			if err != nil {
				return err
			}
			sets[i] = set
		}

		d.organisms[id] = OrganismProfile{
			Herbivores:          sets[0],
			Pollinators:         sets[1],
			FlowerVisitors:      sets[2],
			PredatorsDirectHost: sets[3],
			PredatorsGeneral:    sets[4],
			PredatorsSpatial:    sets[5],
		}
	}
	return rows.Err()
}

func loadFungi(db *sql.DB, d *Dataset) error {
	rows, err := db.Query(`
		SELECT plant_wfo_id,
		       pathogenic_fungi, pathogenic_fungi_count,
		       pathogenic_fungi_host_specific, pathogenic_fungi_host_specific_count,
		       amf_fungi, amf_fungi_count,
		       emf_fungi, emf_fungi_count,
		       mycoparasite_fungi, mycoparasite_fungi_count,
		       entomopathogenic_fungi, entomopathogenic_fungi_count,
		       endophytic_fungi, endophytic_fungi_count,
		       saprotrophic_fungi, saprotrophic_fungi_count
		FROM fungal_profiles`)
	if err != nil {
		return fmt.Errorf("query fungal_profiles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id     string
			raw    [8]sql.NullString
			counts [8]int
		)
		if err := rows.Scan(&id,
			&raw[0], &counts[0], &raw[1], &counts[1], &raw[2], &counts[2],
			&raw[3], &counts[3], &raw[4], &counts[4], &raw[5], &counts[5],
			&raw[6], &counts[6], &raw[7], &counts[7]); err != nil {
			return fmt.Errorf("scan fungal profile: %w", err)
		}

		cols := [8]string{
			"pathogenic_fungi", "pathogenic_fungi_host_specific",
			"amf_fungi", "emf_fungi", "mycoparasite_fungi",
			"entomopathogenic_fungi", "endophytic_fungi", "saprotrophic_fungi",
		}
		var sets [8]Set
		for i := range raw {
			set, err := decodeArray(raw[i], counts[i], id, cols[i])
			if err != nil {
				return err
			}
			sets[i] = set
		}

		// Host-specific pathogens must be a subset of the pathogenic set.
		for name := range sets[1] {
			if !sets[0].Has(name) {
				return fmt.Errorf("fungal profile %s: host-specific pathogen %q not in pathogenic_fungi", id, name)
			}
		}

		d.fungi[id] = FungalProfile{
			Pathogenic:             sets[0],
			PathogenicHostSpecific: sets[1],
			AMF:                    sets[2],
			EMF:                    sets[3],
			Mycoparasitic:          sets[4],
			Entomopathogenic:       sets[5],
			Endophytic:             sets[6],
			Saprotrophic:           sets[7],
		}
	}
	return rows.Err()
}

func loadLookups(db *sql.DB, d *Dataset) error {
	type table struct {
		query string
		dst   map[string]Set
	}
	tables := []table{
		{"SELECT herbivore, predators FROM herbivore_predators", d.lookup.HerbivorePredators},
		{"SELECT herbivore, entomopathogenic_fungi FROM insect_fungal_parasites", d.lookup.HerbivoreEntomopath},
		{"SELECT pathogen, antagonists FROM pathogen_antagonists", d.lookup.PathogenAntagonists},
	}

	for _, t := range tables {
		rows, err := db.Query(t.query)
		if err != nil {
			return fmt.Errorf("query lookup: %w", err)
		}
		for rows.Next() {
			var key string
			var raw sql.NullString
			if err := rows.Scan(&key, &raw); err != nil {
				rows.Close()
				return fmt.Errorf("scan lookup: %w", err)
			}
			set, err := decodeArray(raw, -1, key, "lookup")
			if err != nil {
				rows.Close()
				return err
			}
			t.dst[key] = set
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()
	}
	return nil
}

// decodeArray parses a JSON text array column into a Set. wantCount >= 0
// enforces the parallel count column against the array cardinality
// (before deduplication, matching how the ingestion pipeline counts).
func decodeArray(raw sql.NullString, wantCount int, key, col string) (Set, error) {
	if !raw.Valid || raw.String == "" {
		if wantCount > 0 {
			return nil, fmt.Errorf("%s %s: count is %d but array is empty", key, col, wantCount)
		}
		return NewSet(), nil
	}

	var names []string
	if err := json.Unmarshal([]byte(raw.String), &names); err != nil {
		return nil, fmt.Errorf("%s %s: bad array: %w", key, col, err)
	}
	if wantCount >= 0 && len(names) != wantCount {
		return nil, fmt.Errorf("%s %s: count column %d != array length %d", key, col, wantCount, len(names))
	}
	return NewSet(names...), nil
}
