package views

import (
	"context"
	"strings"

	"github.com/ziadkadry99/storyshelf/internal/auth"
	"github.com/ziadkadry99/storyshelf/internal/content"
	"github.com/ziadkadry99/storyshelf/internal/nav"
	"github.com/ziadkadry99/storyshelf/internal/supabase"
)

// Subscription status texts.
const (
	SubscriptionSignedOut = "Sign in to see your subscription."
	SubscriptionActive    = "Your subscription is active."
	SubscriptionNone      = "You do not have an active subscription."
)

// DisplayName is the name shown for user: the metadata name, else the local
// part of the email, else "User".
func DisplayName(user *supabase.User) string {
	if user == nil {
		return "User"
	}
	if name := user.MetaString("name"); name != "" {
		return name
	}
	if local, _, _ := strings.Cut(user.Email, "@"); local != "" {
		return local
	}
	return "User"
}

func (v *views) dashboard(ctx context.Context, r *nav.Router) error {
	page := r.Page()
	for _, id := range []string{"userName", "userEmail"} {
		if err := page.WaitForElement(ctx, id, elementWait); err != nil {
			v.Logger.Warn("dashboard elements not found", "err", err)
			return nil
		}
	}
	user := auth.ScopeFrom(ctx).User()
	if user == nil {
		return nil
	}
	if err := page.SetText("userName", DisplayName(user)); err != nil {
		return err
	}
	return page.SetText("userEmail", user.Email)
}

func (v *views) login(ctx context.Context, r *nav.Router) error {
	if auth.ScopeFrom(ctx).SignedIn() {
		r.Navigate(ctx, Dashboard)
	}
	return nil
}

func (v *views) profile(ctx context.Context, r *nav.Router) error {
	page := r.Page()
	user := auth.ScopeFrom(ctx).User()
	if user == nil || !page.HasElement("profileName") {
		return nil
	}
	if err := page.SetText("profileName", DisplayName(user)); err != nil {
		return err
	}
	return page.SetText("profileEmail", user.Email)
}

func (v *views) subscription(ctx context.Context, r *nav.Router) error {
	page := r.Page()
	if !page.HasElement("subscriptionStatus") {
		return nil
	}
	scope := auth.ScopeFrom(ctx)
	if !scope.SignedIn() {
		return page.SetText("subscriptionStatus", SubscriptionSignedOut)
	}
	st := storeFor(scope).SubscriptionStatus(ctx, userID(scope))
	return page.SetText("subscriptionStatus", subscriptionText(st))
}

func subscriptionText(st content.Subscription) string {
	if !st.Active {
		return SubscriptionNone
	}
	if st.EndDate != nil && *st.EndDate != "" {
		end := *st.EndDate
		if len(end) > len("2006-01-02") {
			end = end[:len("2006-01-02")]
		}
		return SubscriptionActive + " It renews on " + end + "."
	}
	return SubscriptionActive
}
