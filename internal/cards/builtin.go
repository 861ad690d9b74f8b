package cards

// builtinRoles returns the built-in knowledge table. It covers the
// Commander staples that dominate opening-hand decisions; everything else
// comes from the override file or name heuristics.
func builtinRoles() map[string]Role {
	table := map[string]Role{
		// Fast mana
		"sol ring":         {IsFastMana: true, IsRamp: true, ColorsProduced: nil},
		"mana crypt":       {IsFastMana: true, IsRamp: true},
		"mana vault":       {IsFastMana: true, IsRamp: true},
		"chrome mox":       {IsFastMana: true},
		"mox diamond":      {IsFastMana: true},
		"mox opal":         {IsFastMana: true},
		"lotus petal":      {IsFastMana: true},
		"jeweled lotus":    {IsFastMana: true},
		"dark ritual":      {IsFastMana: true, ColorsProduced: []string{"B"}},
		"simian spirit guide": {IsFastMana: true, ColorsProduced: []string{"R"}},
		"elvish spirit guide": {IsFastMana: true, ColorsProduced: []string{"G"}},

		// Ramp
		"arcane signet":      {IsRamp: true},
		"fellwar stone":      {IsRamp: true},
		"thought vessel":     {IsRamp: true},
		"mind stone":         {IsRamp: true},
		"llanowar elves":     {IsRamp: true, ColorsProduced: []string{"G"}},
		"elvish mystic":      {IsRamp: true, ColorsProduced: []string{"G"}},
		"fyndhorn elves":     {IsRamp: true, ColorsProduced: []string{"G"}},
		"birds of paradise":  {IsRamp: true, ColorsProduced: []string{"W", "U", "B", "R", "G"}},
		"noble hierarch":     {IsRamp: true, ColorsProduced: []string{"G", "W", "U"}},
		"deathrite shaman":   {IsRamp: true},
		"cultivate":          {IsRamp: true},
		"kodama's reach":     {IsRamp: true},
		"rampant growth":     {IsRamp: true},
		"nature's lore":      {IsRamp: true},
		"three visits":       {IsRamp: true},
		"farseek":            {IsRamp: true},
		"sakura-tribe elder": {IsRamp: true},
		"wayfarer's bauble":  {IsRamp: true},

		// Tutors
		"demonic tutor":       {IsTutor: true},
		"vampiric tutor":      {IsTutor: true},
		"mystical tutor":      {IsTutor: true},
		"worldly tutor":       {IsTutor: true},
		"enlightened tutor":   {IsTutor: true},
		"imperial seal":       {IsTutor: true},
		"diabolic intent":     {IsTutor: true},
		"green sun's zenith":  {IsTutor: true},
		"chord of calling":    {IsTutor: true},
		"finale of devastation": {IsTutor: true},

		// Draw engines and selection
		"rhystic study":      {IsDrawEngine: true},
		"mystic remora":      {IsDrawEngine: true},
		"sylvan library":     {IsDrawEngine: true},
		"necropotence":       {IsDrawEngine: true},
		"phyrexian arena":    {IsDrawEngine: true},
		"esper sentinel":     {IsDrawEngine: true},
		"brainstorm":         {IsDrawEngine: true},
		"ponder":             {IsDrawEngine: true},
		"preordain":          {IsDrawEngine: true},
		"sensei's divining top": {IsDrawEngine: true},
		"fact or fiction":    {IsDrawEngine: true},
		"night's whisper":    {IsDrawEngine: true},
		"sign in blood":      {IsDrawEngine: true},

		// Interaction
		"counterspell":       {IsInteraction: true},
		"swan song":          {IsInteraction: true},
		"an offer you can't refuse": {IsInteraction: true},
		"mana drain":         {IsInteraction: true},
		"fierce guardianship": {IsInteraction: true},
		"swords to plowshares": {IsInteraction: true},
		"path to exile":      {IsInteraction: true},
		"lightning bolt":     {IsInteraction: true},
		"fatal push":         {IsInteraction: true},
		"abrupt decay":       {IsInteraction: true},
		"assassin's trophy":  {IsInteraction: true},
		"beast within":       {IsInteraction: true},
		"chaos warp":         {IsInteraction: true},
		"cyclonic rift":      {IsInteraction: true},
		"toxic deluge":       {IsInteraction: true},
		"wrath of god":       {IsInteraction: true},
		"blasphemous act":    {IsInteraction: true},

		// Protection
		"heroic intervention": {IsProtection: true},
		"teferi's protection": {IsProtection: true},
		"deflecting swat":     {IsProtection: true},
		"flawless maneuver":   {IsProtection: true},
		"lightning greaves":   {IsProtection: true},
		"swiftfoot boots":     {IsProtection: true},
		"veil of summer":      {IsProtection: true},
		"silence":             {IsProtection: true},

		// Lands whose names defeat the suffix heuristics
		"command tower":    {IsLand: true, ColorsProduced: []string{"W", "U", "B", "R", "G"}},
		"exotic orchard":   {IsLand: true, ColorsProduced: []string{"W", "U", "B", "R", "G"}},
		"city of brass":    {IsLand: true, ColorsProduced: []string{"W", "U", "B", "R", "G"}},
		"mana confluence":  {IsLand: true, ColorsProduced: []string{"W", "U", "B", "R", "G"}},
		"reflecting pool":  {IsLand: true, ColorsProduced: []string{"W", "U", "B", "R", "G"}},
		"ancient tomb":     {IsLand: true, IsFastMana: true},
		"gaea's cradle":    {IsLand: true, ColorsProduced: []string{"G"}},
		"urborg, tomb of yawgmoth": {IsLand: true, ColorsProduced: []string{"B"}},
		"nykthos, shrine to nyx":   {IsLand: true},
	}

	for name, role := range basicLandColors {
		table[name] = Role{IsLand: true, ColorsProduced: role}
	}

	return table
}
