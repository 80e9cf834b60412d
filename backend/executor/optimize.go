package executor

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"

	"github.com/munishbansal2000/layla-sub008/backend/geoutil"
	"github.com/munishbansal2000/layla-sub008/backend/intent"
	"github.com/munishbansal2000/layla-sub008/backend/itinerary"
	"github.com/munishbansal2000/layla-sub008/backend/session"
)

// payload is what a slot holds, detached from its time window. Reordering
// moves payloads between slots; the windows and lock flags stay put.
type payload struct {
	options  []itinerary.ActivityOption
	selected string
	behavior itinerary.Behavior
}

func takePayload(slot *itinerary.Slot) payload {
	return payload{options: slot.Options, selected: slot.SelectedOptionID, behavior: slot.Behavior}
}

func putPayload(slot *itinerary.Slot, p payload) {
	slot.Options = p.options
	slot.SelectedOptionID = p.selected
	slot.Behavior = p.behavior
}

func (p payload) point() (orb.Point, bool) {
	probe := itinerary.Slot{Options: p.options, SelectedOptionID: p.selected}
	return slotPoint(&probe)
}

func (p payload) label() string {
	probe := itinerary.Slot{Options: p.options, SelectedOptionID: p.selected}
	if opt := probe.EffectiveOption(); opt != nil {
		return opt.Activity.Name
	}
	return "activity"
}

func slotPoint(slot *itinerary.Slot) (orb.Point, bool) {
	opt := slot.EffectiveOption()
	if opt == nil || opt.Activity.Place == nil || opt.Activity.Place.Coordinates == nil {
		return orb.Point{}, false
	}
	return opt.Activity.Place.Coordinates.Point(), true
}

// movableSlot reports whether the slot's payload may be reordered. Locked
// slots, meals, anchors, and travel legs stay where they are.
func movableSlot(slot *itinerary.Slot) bool {
	if slot.IsLocked || len(slot.Options) == 0 || slot.IsMealType() {
		return false
	}
	if slot.Behavior == itinerary.BehaviorAnchor || slot.Behavior == itinerary.BehaviorTravel {
		return false
	}
	_, ok := slotPoint(slot)
	return ok
}

func dayStartPoint(day *itinerary.Day) (orb.Point, bool) {
	if day.Accommodation != nil && day.Accommodation.Coordinates != nil {
		return day.Accommodation.Coordinates.Point(), true
	}
	return orb.Point{}, false
}

// effectiveIDs snapshots which payload occupies each slot, so cost functions
// can tell original adjacencies apart from candidate ones.
func effectiveIDs(day *itinerary.Day) []string {
	ids := make([]string, len(day.Slots))
	for i := range day.Slots {
		if opt := day.Slots[i].EffectiveOption(); opt != nil {
			ids[i] = opt.ID
		}
	}
	return ids
}

// commuteCost totals the day's commute minutes in slot order. A pair whose
// payloads both still sit where the baseline recorded them keeps its resolved
// commute record as cost; any rearranged pair is estimated from coordinates.
func commuteCost(day *itinerary.Day, baseline []string) int {
	cost := 0
	prev, havePrev := dayStartPoint(day)
	prevIntact := true
	for i := range day.Slots {
		slot := &day.Slots[i]
		cur, ok := slotPoint(slot)
		if !ok {
			continue
		}
		intact := false
		if opt := slot.EffectiveOption(); opt != nil && i < len(baseline) {
			intact = opt.ID == baseline[i]
		}
		if havePrev {
			if intact && prevIntact && slot.CommuteFromPrev != nil {
				cost += slot.CommuteFromPrev.DurationMinutes
			} else {
				cost += geoutil.EstimateCommuteMinutes(pointDistance(prev, cur))
			}
		}
		prev, havePrev, prevIntact = cur, true, intact
	}
	return cost
}

// routeCost prices the day as it currently stands, so every resolved commute
// record applies.
func routeCost(day *itinerary.Day) int {
	return commuteCost(day, effectiveIDs(day))
}

func pointDistance(a, b orb.Point) float64 {
	return geoutil.Distance(a[1], a[0], b[1], b[0])
}

// reorderDay rearranges the movable payloads within one day to shorten the
// route: nearest-neighbour construction followed by 2-opt improvement.
// Returns the minutes saved, zero when no better order exists.
func reorderDay(day *itinerary.Day) int {
	var idxs []int
	for i := range day.Slots {
		if movableSlot(&day.Slots[i]) {
			idxs = append(idxs, i)
		}
	}
	if len(idxs) < 2 {
		return 0
	}

	baseline := effectiveIDs(day)
	before := commuteCost(day, baseline)

	payloads := make([]payload, len(idxs))
	for k, i := range idxs {
		payloads[k] = takePayload(&day.Slots[i])
	}

	apply := func(perm []int) {
		for k, i := range idxs {
			putPayload(&day.Slots[i], payloads[perm[k]])
		}
	}
	costOf := func(perm []int) int {
		apply(perm)
		return commuteCost(day, baseline)
	}

	perm := nearestNeighbourOrder(day, idxs, payloads)
	best := costOf(perm)

	// 2-opt: reverse any segment that shortens the route, until stable.
	improved := true
	for improved {
		improved = false
		for i := 0; i < len(perm)-1; i++ {
			for j := i + 1; j < len(perm); j++ {
				reverse(perm, i, j)
				if cost := costOf(perm); cost < best {
					best = cost
					improved = true
				} else {
					reverse(perm, i, j)
				}
			}
		}
	}

	if best >= before {
		apply(identity(len(perm)))
		return 0
	}
	apply(perm)
	return before - best
}

// nearestNeighbourOrder greedily fills the movable positions front to back,
// always picking the unplaced payload closest to the previous known point.
func nearestNeighbourOrder(day *itinerary.Day, idxs []int, payloads []payload) []int {
	used := make([]bool, len(payloads))
	perm := make([]int, 0, len(payloads))

	prev, havePrev := dayStartPoint(day)
	next := 0
	for i := range day.Slots {
		if next < len(idxs) && i == idxs[next] {
			pick, pickDist := -1, math.MaxFloat64
			for k := range payloads {
				if used[k] {
					continue
				}
				p, ok := payloads[k].point()
				if !ok {
					continue
				}
				d := 0.0
				if havePrev {
					d = pointDistance(prev, p)
				}
				if pick == -1 || d < pickDist {
					pick, pickDist = k, d
				}
			}
			if pick == -1 {
				for k := range payloads {
					if !used[k] {
						pick = k
						break
					}
				}
			}
			used[pick] = true
			perm = append(perm, pick)
			if p, ok := payloads[pick].point(); ok {
				prev, havePrev = p, true
			}
			next++
			continue
		}
		if p, ok := slotPoint(&day.Slots[i]); ok {
			prev, havePrev = p, true
		}
	}
	return perm
}

func reverse(perm []int, i, j int) {
	for i < j {
		perm[i], perm[j] = perm[j], perm[i]
		i++
		j--
	}
}

func identity(n int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	return perm
}

// refreshCommutes rewrites the between-slot commute records after a reorder;
// the previous records described an order that no longer exists.
func refreshCommutes(day *itinerary.Day) {
	prev, havePrev := dayStartPoint(day)
	for i := range day.Slots {
		slot := &day.Slots[i]
		cur, ok := slotPoint(slot)
		if !ok {
			continue
		}
		if havePrev {
			dist := pointDistance(prev, cur)
			method := "walk"
			if dist > 2000 {
				method = "transit"
			}
			slot.CommuteFromPrev = &itinerary.Commute{
				Method:          method,
				DurationMinutes: geoutil.EstimateCommuteMinutes(dist),
				DistanceMeters:  math.Round(dist),
			}
		}
		prev, havePrev = cur, true
	}
}

func targetDays(it *itinerary.Itinerary, dayNumber int) ([]*itinerary.Day, *Result) {
	if dayNumber != 0 {
		day := it.DayByNumber(dayNumber)
		if day == nil {
			return nil, reject(fmt.Sprintf("there is no day %d", dayNumber))
		}
		return []*itinerary.Day{day}, nil
	}
	days := make([]*itinerary.Day, 0, len(it.Days))
	for i := range it.Days {
		days = append(days, &it.Days[i])
	}
	return days, nil
}

func (e *Executor) optimizeRoute(in *intent.Intent, it *itinerary.Itinerary, sess *session.Session) *Result {
	clone := it.Clone()

	days, rejected := targetDays(clone, in.Params.DayNumber)
	if rejected != nil {
		return rejected
	}

	saved := 0
	var adjustments []string
	for _, day := range days {
		if minutes := reorderDay(day); minutes > 0 {
			saved += minutes
			refreshCommutes(day)
			adjustments = append(adjustments,
				fmt.Sprintf("reordered day %d to cut about %s of commuting", day.DayNumber, geoutil.FormatDuration(minutes)))
		}
	}

	if saved == 0 {
		return &Result{
			Success: true,
			Message: "The route is already in good shape; no reordering would save commute time.",
		}
	}

	undo := &intent.Intent{
		Type:        intent.Undo,
		Confidence:  1,
		Explanation: "restores the previous ordering",
	}

	message := fmt.Sprintf("Optimized the route, saving about %s of commuting.", geoutil.FormatDuration(saved))
	result := e.commit(clone, it, sess, message, undo)
	if result.Success {
		result.AutoAdjustments = adjustments
		result.MinutesSaved = saved
	}
	return result
}

// optimizeClusters regroups movable activities across days so that each day
// stays geographically tight, then orders each day's picks by proximity.
func (e *Executor) optimizeClusters(in *intent.Intent, it *itinerary.Itinerary, sess *session.Session) *Result {
	clone := it.Clone()

	if len(clone.Days) < 2 {
		// Nothing to regroup across; fall back to in-day ordering.
		return e.optimizeRoute(in, it, sess)
	}

	type position struct {
		day  *itinerary.Day
		slot *itinerary.Slot
	}
	var positions []position
	var pool []payload
	for i := range clone.Days {
		day := &clone.Days[i]
		for j := range day.Slots {
			slot := &day.Slots[j]
			if movableSlot(slot) {
				positions = append(positions, position{day: day, slot: slot})
				pool = append(pool, takePayload(slot))
			}
		}
	}
	if len(pool) < 2 {
		return &Result{Success: true, Message: "There is nothing to regroup; too few movable activities."}
	}

	before := 0
	for i := range clone.Days {
		before += routeCost(&clone.Days[i])
	}

	// Seed each day's centroid from what cannot move: anchors, meals, locked
	// slots, the hotel. Days with no fixed point inherit their first payload.
	centroids := make(map[int]orb.Point)
	counts := make(map[int]int)
	for i := range clone.Days {
		day := &clone.Days[i]
		if p, ok := dayStartPoint(day); ok {
			centroids[day.DayNumber] = p
			counts[day.DayNumber] = 1
		}
		for j := range day.Slots {
			slot := &day.Slots[j]
			if movableSlot(slot) {
				continue
			}
			if p, ok := slotPoint(slot); ok {
				centroids[day.DayNumber] = meanPoint(centroids[day.DayNumber], counts[day.DayNumber], p)
				counts[day.DayNumber]++
			}
		}
	}
	for k, pos := range positions {
		if _, ok := centroids[pos.day.DayNumber]; !ok {
			if p, ok := pool[k].point(); ok {
				centroids[pos.day.DayNumber] = p
				counts[pos.day.DayNumber] = 1
			}
		}
	}

	// Greedy assignment: each position takes the unassigned payload nearest
	// to its day's centroid, pulling the centroid along as it goes.
	used := make([]bool, len(pool))
	moved := 0
	var adjustments []string
	for _, pos := range positions {
		centroid, haveCentroid := centroids[pos.day.DayNumber]
		pick, pickDist := -1, math.MaxFloat64
		for k := range pool {
			if used[k] {
				continue
			}
			p, ok := pool[k].point()
			if !ok {
				continue
			}
			d := 0.0
			if haveCentroid {
				d = pointDistance(centroid, p)
			}
			if pick == -1 || d < pickDist {
				pick, pickDist = k, d
			}
		}
		if pick == -1 {
			for k := range pool {
				if !used[k] {
					pick = k
					break
				}
			}
		}
		used[pick] = true

		previous := takePayload(pos.slot)
		putPayload(pos.slot, pool[pick])
		if previous.label() != pool[pick].label() {
			moved++
			adjustments = append(adjustments,
				fmt.Sprintf("grouped %q into day %d", pool[pick].label(), pos.day.DayNumber))
		}
		if p, ok := pool[pick].point(); ok {
			centroids[pos.day.DayNumber] = meanPoint(centroid, counts[pos.day.DayNumber], p)
			counts[pos.day.DayNumber]++
		}
	}

	after := 0
	for i := range clone.Days {
		day := &clone.Days[i]
		// Regrouping invalidated the old records; rebuild them before the
		// in-day reorder prices anything against them.
		refreshCommutes(day)
		reorderDay(day)
		refreshCommutes(day)
		after += routeCost(day)
	}

	if moved == 0 || after >= before {
		return &Result{
			Success: true,
			Message: "The days are already well clustered; no regrouping would help.",
		}
	}

	undo := &intent.Intent{
		Type:        intent.Undo,
		Confidence:  1,
		Explanation: "restores the previous grouping",
	}

	saved := before - after
	message := fmt.Sprintf("Regrouped %d activities by neighborhood, saving about %s of commuting.", moved, geoutil.FormatDuration(saved))
	result := e.commit(clone, it, sess, message, undo)
	if result.Success {
		result.AutoAdjustments = adjustments
		result.MinutesSaved = saved
	}
	return result
}

func meanPoint(current orb.Point, count int, next orb.Point) orb.Point {
	if count == 0 {
		return next
	}
	n := float64(count)
	return orb.Point{
		(current[0]*n + next[0]) / (n + 1),
		(current[1]*n + next[1]) / (n + 1),
	}
}

const (
	maxDayLoadMin  = 600 // ten hours of scheduled time per day
	minFlexSlotMin = 60
)

// balancePacing shrinks flexible slots on overloaded days so that scheduled
// time plus commuting fits the daily ceiling. Locked slots, meals, and
// anchors keep their windows.
func (e *Executor) balancePacing(in *intent.Intent, it *itinerary.Itinerary, sess *session.Session) *Result {
	clone := it.Clone()

	days, rejected := targetDays(clone, in.Params.DayNumber)
	if rejected != nil {
		return rejected
	}

	var adjustments []string
	trimmed := 0
	for _, day := range days {
		load := dayLoadMinutes(day)
		if load <= maxDayLoadMin {
			continue
		}
		excess := load - maxDayLoadMin

		for i := range day.Slots {
			if excess <= 0 {
				break
			}
			slot := &day.Slots[i]
			if slot.IsLocked || len(slot.Options) == 0 || slot.Behavior != itinerary.BehaviorFlex {
				continue
			}
			start, err1 := geoutil.ParseClock(slot.Time.Start)
			end, err2 := geoutil.ParseClock(slot.Time.End)
			if err1 != nil || err2 != nil {
				continue
			}
			window := end - start
			floor := minFlexSlotMin
			if opt := slot.EffectiveOption(); opt != nil && opt.Activity.DurationMinutes > floor {
				floor = opt.Activity.DurationMinutes
			}
			if window <= floor {
				continue
			}
			cut := window - floor
			if cut > excess {
				cut = excess
			}
			slot.Time.End = geoutil.FormatClock(end - cut)
			excess -= cut
			trimmed += cut
			adjustments = append(adjustments,
				fmt.Sprintf("shortened %q on day %d by %s", activityLabel(slot), day.DayNumber, geoutil.FormatDuration(cut)))
		}

		if excess > 0 {
			adjustments = append(adjustments,
				fmt.Sprintf("day %d is still %s over a comfortable load; consider dropping something", day.DayNumber, geoutil.FormatDuration(excess)))
		}
	}

	if trimmed == 0 {
		return &Result{
			Success: true,
			Message: "The pacing already looks comfortable; nothing needed trimming.",
		}
	}

	undo := &intent.Intent{
		Type:        intent.Undo,
		Confidence:  1,
		Explanation: "restores the previous slot windows",
	}

	message := fmt.Sprintf("Rebalanced the pacing, trimming %s of scheduled time.", geoutil.FormatDuration(trimmed))
	result := e.commit(clone, it, sess, message, undo)
	if result.Success {
		result.AutoAdjustments = adjustments
	}
	return result
}

// dayLoadMinutes totals the occupied slot windows plus recorded commutes.
func dayLoadMinutes(day *itinerary.Day) int {
	total := 0
	for i := range day.Slots {
		slot := &day.Slots[i]
		if len(slot.Options) == 0 {
			continue
		}
		start, err1 := geoutil.ParseClock(slot.Time.Start)
		end, err2 := geoutil.ParseClock(slot.Time.End)
		if err1 == nil && err2 == nil && end > start {
			total += end - start
		}
		if slot.CommuteFromPrev != nil {
			total += slot.CommuteFromPrev.DurationMinutes
		}
	}
	if day.CommuteToHotel != nil {
		total += day.CommuteToHotel.DurationMinutes
	}
	return total
}
