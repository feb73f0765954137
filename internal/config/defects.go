package config

// DefectSeedCategory is one seeded defect category with its type names, in
// display order. Matches the plant's inspection sheet; loaded once at
// startup, never mutated by users (ad-hoc types are added through the
// catalog's insert-if-absent path instead).
type DefectSeedCategory struct {
	Key         string
	Name        string
	Description string
	Types       []string
}

// DefectSeed is the startup taxonomy. Slice order is the category sort
// order; type order within a category is its sort order.
var DefectSeed = []DefectSeedCategory{
	{
		Key:         "second_grade",
		Name:        "Second grade",
		Description: "Usable castings downgraded below first quality",
		Types: []string{
			"Shrinkage cavities",
			"Casting undercut",
			"Foam pattern undercut",
		},
	},
	{
		Key:         "rework",
		Name:        "Rework",
		Description: "Defects correctable by finishing operations",
		Types: []string{
			"Shrinkage cavities",
			"Dimensional deviation",
			"Surface appearance deviation",
			"Metal buildup",
			"Metal breakthrough",
			"Tear-out",
			"Flash",
			"Sand on surface",
			"Sand in thread",
			"Glue residue",
			"Warping",
			"Foam pattern defect",
			"Feet",
			"Feeder",
			"Crown",
			"Shift",
			"Glue run",
			"Glue on seam",
		},
	},
	{
		Key:         "final_reject",
		Name:        "Final reject",
		Description: "Irrecoverable castings scrapped at inspection",
		Types: []string{
			"Short pour",
			"Tear-out",
			"Warping",
			"Metal buildup",
			"Geometry violation",
			"Marking violation",
			"Glue failure",
			"Cold shut",
			"Surface appearance deviation",
			"Dimensional deviation",
			"Foam pattern",
			"Porosity",
			"Burnt-on sand",
			"Other",
			"Sponginess",
			"Shrinkage cavities",
			"Chipping",
			"Breakage",
			"Cold lap",
			"Cracks",
			"Casting undercut",
			"Foam pattern undercut",
		},
	},
}
