package engine

// ConstructionKind tags one row of the construction catalog.
type ConstructionKind string

const (
	SolarField      ConstructionKind = "solar_field"
	HydroponicsFarm ConstructionKind = "hydroponics_farm"
	MaterialMine    ConstructionKind = "material_mine"
	FuelRefinery    ConstructionKind = "fuel_refinery"
	FusionPlant     ConstructionKind = "fusion_plant"
)

// ConstructionDescriptor is one static catalog row. Descriptors are immutable
// and shared; callers must not modify the bunches.
type ConstructionDescriptor struct {
	Kind        ConstructionKind `json:"kind"`
	Name        string           `json:"name"`
	SpriteIndex int              `json:"sprite_index"`
	BuildCost   Bunch            `json:"build_cost"`
	Requests    Bunch            `json:"requests"`
	Produces    Bunch            `json:"produces"`
	Cooldown    int              `json:"cooldown"`
}

var catalog = map[ConstructionKind]ConstructionDescriptor{
	SolarField: {
		Kind:        SolarField,
		Name:        "Solar Field",
		SpriteIndex: 16,
		BuildCost:   Single(Material, 5),
		Requests:    Bunch{},
		Produces:    Single(Power, 3),
		Cooldown:    1,
	},
	HydroponicsFarm: {
		Kind:        HydroponicsFarm,
		Name:        "Hydroponics Farm",
		SpriteIndex: 17,
		BuildCost:   Single(Material, 8),
		Requests:    Single(Power, 2),
		Produces:    Single(Food, 2),
		Cooldown:    1,
	},
	MaterialMine: {
		Kind:        MaterialMine,
		Name:        "Material Mine",
		SpriteIndex: 18,
		BuildCost:   Single(Material, 10),
		Requests:    Single(Power, 1),
		Produces:    Single(Material, 2),
		Cooldown:    1,
	},
	FuelRefinery: {
		Kind:        FuelRefinery,
		Name:        "Fuel Refinery",
		SpriteIndex: 19,
		BuildCost:   Single(Material, 12),
		Requests:    Bunch{Power: 2, Material: 1},
		Produces:    Single(RocketFuel, 2),
		Cooldown:    2,
	},
	FusionPlant: {
		Kind:        FusionPlant,
		Name:        "Fusion Plant",
		SpriteIndex: 20,
		BuildCost:   Single(Material, 20),
		Requests:    Bunch{RocketFuel: 1, Material: 2},
		Produces:    Single(FusionFuel, 1),
		Cooldown:    3,
	},
}

// kindOrder fixes the catalog enumeration order. It is used for UI listing
// only; resolution order is derived from node order, never from here.
var kindOrder = []ConstructionKind{
	SolarField,
	HydroponicsFarm,
	MaterialMine,
	FuelRefinery,
	FusionPlant,
}

// Describe looks up the descriptor for kind.
func Describe(kind ConstructionKind) (ConstructionDescriptor, bool) {
	desc, ok := catalog[kind]
	return desc, ok
}

// Kinds returns all construction kinds in catalog order.
func Kinds() []ConstructionKind {
	out := make([]ConstructionKind, len(kindOrder))
	copy(out, kindOrder)
	return out
}
