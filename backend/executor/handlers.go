package executor

import (
	"fmt"
	"sort"

	"github.com/samber/lo"

	"github.com/munishbansal2000/layla-sub008/backend/geoutil"
	"github.com/munishbansal2000/layla-sub008/backend/intent"
	"github.com/munishbansal2000/layla-sub008/backend/itinerary"
	"github.com/munishbansal2000/layla-sub008/backend/session"
)

// swapPayload exchanges what the slots hold while leaving the time windows
// and lock state in place.
func swapPayload(a, b *itinerary.Slot) {
	a.Options, b.Options = b.Options, a.Options
	a.SelectedOptionID, b.SelectedOptionID = b.SelectedOptionID, a.SelectedOptionID
	a.Behavior, b.Behavior = b.Behavior, a.Behavior
}

func clearPayload(slot *itinerary.Slot) {
	slot.Options = nil
	slot.SelectedOptionID = ""
	if slot.IsMealType() {
		slot.Behavior = itinerary.BehaviorMeal
	} else {
		slot.Behavior = itinerary.BehaviorFlex
	}
}

func (e *Executor) moveActivity(in *intent.Intent, it *itinerary.Itinerary, sess *session.Session) *Result {
	clone := it.Clone()

	srcDay, src := locate(clone, in.Params)
	if src == nil {
		return reject(fmt.Sprintf("couldn't find %q in the itinerary", in.Params.ActivityName))
	}
	if src.IsLocked {
		return rejectLocked(src, activityLabel(src))
	}

	destDay := srcDay
	if in.Params.ToDay != 0 {
		destDay = clone.DayByNumber(in.Params.ToDay)
		if destDay == nil {
			return reject(fmt.Sprintf("there is no day %d", in.Params.ToDay))
		}
	}

	var dest *itinerary.Slot
	if in.Params.ToSlot != "" {
		for i := range destDay.Slots {
			if destDay.Slots[i].Type == itinerary.SlotType(in.Params.ToSlot) {
				dest = &destDay.Slots[i]
				break
			}
		}
		if dest == nil {
			return reject(fmt.Sprintf("day %d has no %s slot", destDay.DayNumber, in.Params.ToSlot))
		}
	} else {
		for i := range destDay.Slots {
			if len(destDay.Slots[i].Options) == 0 {
				dest = &destDay.Slots[i]
				break
			}
		}
		if dest == nil {
			return reject(fmt.Sprintf("day %d has no free slot; say where to put it", destDay.DayNumber))
		}
	}

	if dest.IsLocked {
		return rejectLocked(dest, activityLabel(dest))
	}
	if dest.ID == src.ID {
		return reject(fmt.Sprintf("%q is already in that slot", activityLabel(src)))
	}

	name := activityLabel(src)
	undo := &intent.Intent{
		Type: intent.MoveActivity,
		Params: intent.Params{
			ActivityName: name,
			ToSlot:       string(src.Type),
			ToDay:        srcDay.DayNumber,
		},
		Confidence:  1,
		Explanation: fmt.Sprintf("moves %q back to its previous slot", name),
	}

	swapPayload(src, dest)

	message := fmt.Sprintf("Moved %q to the %s slot on day %d.", name, dest.Type, destDay.DayNumber)
	return e.commit(clone, it, sess, message, undo)
}

func (e *Executor) swapActivities(in *intent.Intent, it *itinerary.Itinerary, sess *session.Session) *Result {
	if in.Params.ActivityName == "" || in.Params.SecondActivity == "" {
		return reject("tell me the two activities to swap")
	}

	clone := it.Clone()

	_, first := clone.FindActivity(in.Params.ActivityName)
	if first == nil {
		return reject(fmt.Sprintf("couldn't find %q in the itinerary", in.Params.ActivityName))
	}
	_, second := clone.FindActivity(in.Params.SecondActivity)
	if second == nil {
		return reject(fmt.Sprintf("couldn't find %q in the itinerary", in.Params.SecondActivity))
	}
	if first.ID == second.ID {
		return reject("those point at the same slot")
	}
	if first.IsLocked {
		return rejectLocked(first, activityLabel(first))
	}
	if second.IsLocked {
		return rejectLocked(second, activityLabel(second))
	}

	undo := &intent.Intent{
		Type:        intent.SwapActivities,
		Params:      in.Params,
		Confidence:  1,
		Explanation: "swaps the two activities back",
	}

	labelA, labelB := activityLabel(first), activityLabel(second)
	swapPayload(first, second)

	message := fmt.Sprintf("Swapped %q and %q.", labelA, labelB)
	return e.commit(clone, it, sess, message, undo)
}

func (e *Executor) removeActivity(in *intent.Intent, it *itinerary.Itinerary, sess *session.Session) *Result {
	clone := it.Clone()

	day, slot := locate(clone, in.Params)
	if slot == nil {
		return reject(fmt.Sprintf("couldn't find %q in the itinerary", in.Params.ActivityName))
	}
	if slot.IsLocked {
		return rejectLocked(slot, activityLabel(slot))
	}

	name := activityLabel(slot)
	clearPayload(slot)

	undo := &intent.Intent{
		Type:        intent.Undo,
		Confidence:  1,
		Explanation: fmt.Sprintf("restores %q to day %d", name, day.DayNumber),
	}

	message := fmt.Sprintf("Removed %q from day %d; the slot is free now.", name, day.DayNumber)
	return e.commit(clone, it, sess, message, undo)
}

func (e *Executor) addActivity(in *intent.Intent, it *itinerary.Itinerary, sess *session.Session) *Result {
	if in.Params.ActivityName == "" {
		return reject("tell me what to add")
	}

	clone := it.Clone()

	dayNumber := in.Params.DayNumber
	if dayNumber == 0 {
		dayNumber = 1
	}
	day := clone.DayByNumber(dayNumber)
	if day == nil {
		return reject(fmt.Sprintf("there is no day %d", dayNumber))
	}

	slot := pickSlotForAdd(day, itinerary.SlotType(in.Params.ToSlot))
	if slot == nil {
		slot = appendSlot(day, itinerary.SlotType(in.Params.ToSlot))
	}
	if slot.IsLocked {
		return rejectLocked(slot, activityLabel(slot))
	}

	option := itinerary.ActivityOption{
		ID:   fmt.Sprintf("opt-%s-user", itinerary.NormalizeName(in.Params.ActivityName)),
		Rank: 1,
		Activity: itinerary.Activity{
			Name:     in.Params.ActivityName,
			Category: "custom",
		},
	}
	for i := range slot.Options {
		slot.Options[i].Rank++
	}
	slot.Options = append([]itinerary.ActivityOption{option}, slot.Options...)
	slot.SelectedOptionID = option.ID

	undo := &intent.Intent{
		Type:        intent.RemoveActivity,
		Params:      intent.Params{ActivityName: in.Params.ActivityName},
		Confidence:  1,
		Explanation: fmt.Sprintf("removes %q again", in.Params.ActivityName),
	}

	message := fmt.Sprintf("Added %q to the %s slot on day %d.", in.Params.ActivityName, slot.Type, day.DayNumber)
	return e.commit(clone, it, sess, message, undo)
}

// pickSlotForAdd prefers an empty slot of the requested type, then any empty
// slot, then an occupied slot of the requested type.
func pickSlotForAdd(day *itinerary.Day, slotType itinerary.SlotType) *itinerary.Slot {
	if slotType != "" {
		for i := range day.Slots {
			if day.Slots[i].Type == slotType && len(day.Slots[i].Options) == 0 {
				return &day.Slots[i]
			}
		}
	}
	for i := range day.Slots {
		if len(day.Slots[i].Options) == 0 && !day.Slots[i].IsMealType() {
			return &day.Slots[i]
		}
	}
	if slotType != "" {
		for i := range day.Slots {
			if day.Slots[i].Type == slotType {
				return &day.Slots[i]
			}
		}
	}
	return nil
}

// appendSlot opens a new window after the day's last slot.
func appendSlot(day *itinerary.Day, slotType itinerary.SlotType) *itinerary.Slot {
	if slotType == "" {
		slotType = itinerary.SlotEvening
	}
	start := 9 * 60
	if len(day.Slots) > 0 {
		if end, err := geoutil.ParseClock(day.Slots[len(day.Slots)-1].Time.End); err == nil {
			start = end + 30
		}
	}
	day.Slots = append(day.Slots, itinerary.Slot{
		ID:       itinerary.CanonicalSlotID(day.DayNumber, len(day.Slots)+1),
		Type:     slotType,
		Time:     itinerary.TimeRange{Start: geoutil.FormatClock(start), End: geoutil.FormatClock(start + 90)},
		Behavior: itinerary.BehaviorFlex,
	})
	return &day.Slots[len(day.Slots)-1]
}

func (e *Executor) replaceActivity(in *intent.Intent, it *itinerary.Itinerary, sess *session.Session) *Result {
	if in.Params.SecondActivity == "" {
		return reject("tell me what to replace it with")
	}

	clone := it.Clone()

	day, slot := locate(clone, in.Params)
	if slot == nil {
		return reject(fmt.Sprintf("couldn't find %q in the itinerary", in.Params.ActivityName))
	}
	if slot.IsLocked {
		return rejectLocked(slot, activityLabel(slot))
	}

	old := activityLabel(slot)
	option := itinerary.ActivityOption{
		ID:   fmt.Sprintf("opt-%s-user", itinerary.NormalizeName(in.Params.SecondActivity)),
		Rank: 1,
		Activity: itinerary.Activity{
			Name:     in.Params.SecondActivity,
			Category: "custom",
		},
	}
	slot.Options = []itinerary.ActivityOption{option}
	slot.SelectedOptionID = option.ID

	undo := &intent.Intent{
		Type:        intent.Undo,
		Confidence:  1,
		Explanation: fmt.Sprintf("restores %q on day %d", old, day.DayNumber),
	}

	message := fmt.Sprintf("Replaced %q with %q on day %d.", old, in.Params.SecondActivity, day.DayNumber)
	return e.commit(clone, it, sess, message, undo)
}

func (e *Executor) prioritize(in *intent.Intent, it *itinerary.Itinerary, sess *session.Session) *Result {
	clone := it.Clone()

	day, slot := locate(clone, in.Params)
	if slot == nil {
		return reject(fmt.Sprintf("couldn't find %q in the itinerary", in.Params.ActivityName))
	}

	name := activityLabel(slot)
	slot.IsLocked = true
	slot.Behavior = itinerary.BehaviorAnchor

	undo := &intent.Intent{
		Type:        intent.Deprioritize,
		Params:      intent.Params{ActivityName: name},
		Confidence:  1,
		Explanation: fmt.Sprintf("unlocks %q again", name),
	}

	message := fmt.Sprintf("Locked %q on day %d; it won't be moved.", name, day.DayNumber)
	return e.commit(clone, it, sess, message, undo)
}

func (e *Executor) deprioritize(in *intent.Intent, it *itinerary.Itinerary, sess *session.Session) *Result {
	clone := it.Clone()

	day, slot := locate(clone, in.Params)
	if slot == nil {
		return reject(fmt.Sprintf("couldn't find %q in the itinerary", in.Params.ActivityName))
	}

	name := activityLabel(slot)
	slot.IsLocked = false
	if slot.IsMealType() {
		slot.Behavior = itinerary.BehaviorMeal
	} else {
		slot.Behavior = itinerary.BehaviorFlex
	}

	undo := &intent.Intent{
		Type:        intent.Prioritize,
		Params:      intent.Params{ActivityName: name},
		Confidence:  1,
		Explanation: fmt.Sprintf("locks %q again", name),
	}

	message := fmt.Sprintf("%q on day %d is flexible again.", name, day.DayNumber)
	return e.commit(clone, it, sess, message, undo)
}

func (e *Executor) lockSlot(in *intent.Intent, it *itinerary.Itinerary, sess *session.Session) *Result {
	return e.setLock(in, it, sess, true)
}

func (e *Executor) unlockSlot(in *intent.Intent, it *itinerary.Itinerary, sess *session.Session) *Result {
	return e.setLock(in, it, sess, false)
}

func (e *Executor) setLock(in *intent.Intent, it *itinerary.Itinerary, sess *session.Session, locked bool) *Result {
	clone := it.Clone()

	day, slot := locate(clone, in.Params)
	if slot == nil {
		return reject("couldn't find that slot")
	}

	slot.IsLocked = locked

	inverse := intent.UnlockSlot
	verb := "Locked"
	if !locked {
		inverse = intent.LockSlot
		verb = "Unlocked"
	}
	undo := &intent.Intent{
		Type:       inverse,
		Params:     intent.Params{SlotID: slot.ID},
		Confidence: 1,
	}

	message := fmt.Sprintf("%s the %s slot on day %d.", verb, slot.Type, day.DayNumber)
	return e.commit(clone, it, sess, message, undo)
}

func (e *Executor) suggestAlternatives(in *intent.Intent, it *itinerary.Itinerary, _ *session.Session) *Result {
	_, slot := locate(it, in.Params)
	if slot == nil {
		return reject(fmt.Sprintf("couldn't find %q in the itinerary", in.Params.ActivityName))
	}

	effective := slot.EffectiveOption()
	alternatives := lo.Filter(slot.Options, func(opt itinerary.ActivityOption, _ int) bool {
		return effective == nil || opt.ID != effective.ID
	})
	sort.SliceStable(alternatives, func(i, j int) bool {
		return alternatives[i].Rank < alternatives[j].Rank
	})

	if len(alternatives) == 0 {
		return &Result{
			Success: true,
			Message: fmt.Sprintf("There are no ranked alternatives for %q yet.", activityLabel(slot)),
		}
	}

	return &Result{
		Success:     true,
		Message:     fmt.Sprintf("Here are %d alternatives for %q.", len(alternatives), activityLabel(slot)),
		Suggestions: alternatives,
	}
}

const replacementPoolSize = 5

func (e *Executor) suggestFromPool(_ *intent.Intent, it *itinerary.Itinerary, _ *session.Session) *Result {
	var pool []itinerary.ActivityOption
	for i := range it.Days {
		for j := range it.Days[i].Slots {
			slot := &it.Days[i].Slots[j]
			effective := slot.EffectiveOption()
			for _, opt := range slot.Options {
				if effective != nil && opt.ID == effective.ID {
					continue
				}
				pool = append(pool, opt)
			}
		}
	}

	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].Score > pool[j].Score
	})
	if len(pool) > replacementPoolSize {
		pool = pool[:replacementPoolSize]
	}

	if len(pool) == 0 {
		return &Result{Success: true, Message: "The replacement pool is empty."}
	}

	return &Result{
		Success:     true,
		Message:     fmt.Sprintf("Top %d candidates from the replacement pool.", len(pool)),
		Suggestions: pool,
	}
}

func (e *Executor) undo(_ *intent.Intent, it *itinerary.Itinerary, sess *session.Session) *Result {
	if sess == nil || !sess.CanUndo() {
		return reject("there is nothing to undo")
	}

	restored := sess.Undo(it)
	return &Result{
		Success:   true,
		Message:   "Reverted the last change.",
		Itinerary: restored,
		UndoAction: &intent.Intent{
			Type:       intent.Redo,
			Confidence: 1,
		},
	}
}

func (e *Executor) redo(_ *intent.Intent, it *itinerary.Itinerary, sess *session.Session) *Result {
	if sess == nil || !sess.CanRedo() {
		return reject("there is nothing to redo")
	}

	restored := sess.Redo(it)
	return &Result{
		Success:   true,
		Message:   "Reapplied the change.",
		Itinerary: restored,
		UndoAction: &intent.Intent{
			Type:       intent.Undo,
			Confidence: 1,
		},
	}
}
