package scrape

import (
	"errors"
	"fmt"
	"time"
)

// fakeClient is an in-memory PageClient. Listing pages are fixed row slices;
// secondary pages are canned sources keyed by URL. It counts collaborator
// calls so tests can assert memoization and context discipline.
type fakeClient struct {
	listingPages [][]Row
	sources      map[string]string

	pageIndex     int
	secondaryURL  string
	secondaryOpen bool

	navigateCalls []string
	openCalls     []string
	nextPageCalls int
	restoreCalls  int

	openErr    map[string]error
	restoreErr error
}

func newFakeClient(listingPages [][]Row) *fakeClient {
	return &fakeClient{
		listingPages: listingPages,
		sources:      make(map[string]string),
		openErr:      make(map[string]error),
	}
}

func (f *fakeClient) Navigate(url string) error {
	f.navigateCalls = append(f.navigateCalls, url)
	return nil
}

func (f *fakeClient) WaitForContent(selector string, timeout time.Duration) error {
	return nil
}

func (f *fakeClient) Rows() ([]Row, error) {
	if f.pageIndex >= len(f.listingPages) {
		return nil, nil
	}
	return f.listingPages[f.pageIndex], nil
}

func (f *fakeClient) OpenSecondary(url string) error {
	if f.secondaryOpen {
		return errors.New("secondary context already open")
	}
	if err := f.openErr[url]; err != nil {
		return err
	}
	f.openCalls = append(f.openCalls, url)
	f.secondaryURL = url
	f.secondaryOpen = true
	return nil
}

func (f *fakeClient) CloseSecondary() error {
	if !f.secondaryOpen {
		return errors.New("no secondary context open")
	}
	f.secondaryOpen = false
	return nil
}

func (f *fakeClient) RestoreMain() error {
	f.restoreCalls++
	if f.restoreErr != nil {
		return f.restoreErr
	}
	f.secondaryOpen = false
	return nil
}

func (f *fakeClient) Source() (string, error) {
	if f.secondaryOpen {
		return f.sources[f.secondaryURL], nil
	}
	return "<html><table></table></html>", nil
}

func (f *fakeClient) NextPage() (bool, error) {
	f.nextPageCalls++
	if f.pageIndex+1 >= len(f.listingPages) {
		return false, nil
	}
	f.pageIndex++
	return true, nil
}

// opensOf counts OpenSecondary calls for one URL.
func (f *fakeClient) opensOf(url string) int {
	count := 0
	for _, u := range f.openCalls {
		if u == url {
			count++
		}
	}
	return count
}

// problemPage renders the identity fields the resolver looks for.
func problemPage(id, title string) string {
	return fmt.Sprintf(`<html><script>{"questionFrontendId":"%s","title":"%s"}</script></html>`, id, title)
}

// submissionPage renders the embedded code literal the extractor looks for.
func submissionPage(code string) string {
	return fmt.Sprintf("<html><script>submissionCode: '%s',\n  editCodeUrl: '/x/'</script></html>", code)
}
